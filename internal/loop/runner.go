// Package loop drives the engine in real time. Wall time accumulates and is
// spent in whole fixed steps, so the simulation is the same however often the
// frame ticker fires. Saves only happen between steps.
package loop

import (
	"context"
	"log"
	"time"

	"idlerpg/internal/command"
	"idlerpg/internal/progression"
	"idlerpg/internal/save"
	"idlerpg/internal/telemetry"
)

const (
	DefaultStep     = 100 * time.Millisecond
	DefaultFrame    = 100 * time.Millisecond
	DefaultAutosave = 60 * time.Second
)

// Renderer draws the current frame.
type Renderer interface {
	Render(e *progression.Engine, c *command.Controller) error
}

type Options struct {
	Step     time.Duration
	Frame    time.Duration
	Autosave time.Duration
	Clock    Clock
	Logger   *log.Logger
	Renderer Renderer
	Recorder progression.Recorder
}

type Runner struct {
	engine     *progression.Engine
	controller *command.Controller
	store      save.Store

	step, frame, autosave time.Duration

	clock     Clock
	logger    *log.Logger
	renderer  Renderer
	recorder  progression.Recorder
	last      time.Time
	acc       time.Duration
	sinceSave time.Duration
}

func NewRunner(engine *progression.Engine, controller *command.Controller, store save.Store, opts Options) *Runner {
	if opts.Step <= 0 {
		opts.Step = DefaultStep
	}
	if opts.Frame <= 0 {
		opts.Frame = DefaultFrame
	}
	if opts.Autosave <= 0 {
		opts.Autosave = DefaultAutosave
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Runner{
		engine:     engine,
		controller: controller,
		store:      store,
		step:       opts.Step,
		frame:      opts.Frame,
		autosave:   opts.Autosave,
		clock:      opts.Clock,
		logger:     opts.Logger,
		renderer:   opts.Renderer,
		recorder:   opts.Recorder,
		last:       opts.Clock.Now(),
	}
}

// Pump spends the wall time elapsed since the previous call in whole steps and
// autosaves once enough play time has gone by. It returns the steps taken.
func (r *Runner) Pump(ctx context.Context) int {
	now := r.clock.Now()
	if elapsed := now.Sub(r.last); elapsed > 0 {
		r.acc += elapsed
	}
	r.last = now

	steps := 0
	dt := r.step.Seconds()
	for r.acc >= r.step {
		r.engine.Advance(dt)
		r.acc -= r.step
		r.sinceSave += r.step
		steps++
	}

	if r.sinceSave >= r.autosave {
		r.sinceSave = 0
		_ = r.Save(ctx, "autosave")
	}
	return steps
}

// Handle applies a token and saves right away when the controller asks.
// It reports whether the player quit.
func (r *Runner) Handle(ctx context.Context, tok command.Token) bool {
	res := r.controller.Handle(tok)
	if res.Save && !res.Quit {
		r.sinceSave = 0
		_ = r.Save(ctx, tok.String())
	}
	return res.Quit
}

// Save persists the current state. Failures are logged and recorded but do
// not stop the game.
func (r *Runner) Save(ctx context.Context, why string) error {
	s := r.engine.State()
	if err := r.store.Save(ctx, s); err != nil {
		r.logger.Printf("save failed (%s): %v", why, err)
		r.record(telemetry.EventSaveFailed, telemetry.EventMetadata{"reason": why, "error": err.Error()})
		return err
	}
	r.logger.Printf("saved (%s): level %d, gold %d", why, s.Level, s.Gold)
	r.record(telemetry.EventSaved, telemetry.EventMetadata{"reason": why})
	return nil
}

func (r *Runner) record(t telemetry.EventType, md telemetry.EventMetadata) {
	if r.recorder == nil {
		return
	}
	_ = r.recorder.RecordEvent(t, md)
}

func (r *Runner) draw() {
	if r.renderer == nil {
		return
	}
	if err := r.renderer.Render(r.engine, r.controller); err != nil {
		r.logger.Printf("render: %v", err)
	}
}

// Run pumps and renders once per frame and applies tokens as they arrive,
// until Quit, a closed token channel or ctx ends. It always finishes with a
// final save and returns that save's error.
func (r *Runner) Run(ctx context.Context, tokens <-chan command.Token) error {
	ticker := time.NewTicker(r.frame)
	defer ticker.Stop()

	r.last = r.clock.Now()
	r.draw()

	for {
		select {
		case <-ctx.Done():
			r.logger.Printf("loop: stopped: %v", ctx.Err())
			return r.Save(context.WithoutCancel(ctx), "shutdown")
		case tok, ok := <-tokens:
			if !ok || r.Handle(ctx, tok) {
				r.logger.Printf("loop: quit")
				return r.Save(ctx, "quit")
			}
			r.draw()
		case <-ticker.C:
			r.Pump(ctx)
			r.draw()
		}
	}
}
