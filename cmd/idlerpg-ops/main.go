package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"idlerpg/internal/config"
	"idlerpg/internal/ops"
	"idlerpg/internal/save"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cmds := map[string]func([]string) error{
		"backup":  cmdBackup,
		"restore": cmdRestore,
		"inspect": cmdInspect,
		"wipe":    cmdWipe,
		"drill":   cmdDrill,
	}
	run, ok := cmds[os.Args[1]]
	if !ok {
		printUsage()
		os.Exit(2)
	}
	if err := run(os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

// defaults reads the same environment the game does so both tools agree on
// where saves live.
func defaults() config.Settings {
	s, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
		s.SaveBackend = save.BackendJSON
		s.DataDir, _ = config.DefaultDataDir()
	}
	return s
}

func cmdBackup(args []string) error {
	d := defaults()
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	dataDir := fs.String("data-dir", d.DataDir, "path to data directory")
	out := fs.String("out", "", "output archive path (.tar.gz)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *out == "" {
		ts := time.Now().UTC().Format("20060102T150405Z")
		*out = filepath.Join("backups", "idlerpg-"+ts+".tar.gz")
	}

	names, err := ops.BackupSaves(*dataDir, *out)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Println("  ", n)
	}
	fmt.Println(*out)
	return nil
}

func cmdRestore(args []string) error {
	d := defaults()
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	archive := fs.String("archive", "", "input backup archive (.tar.gz)")
	target := fs.String("data-dir", d.DataDir, "restore target directory")
	force := fs.Bool("force", false, "overwrite existing save files")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *archive == "" {
		return fmt.Errorf("archive is required")
	}
	names, err := ops.RestoreSaves(*archive, *target, *force)
	if errors.Is(err, ops.ErrExists) {
		return fmt.Errorf("%w (use --force to replace it)", err)
	}
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Println("restored:", filepath.Join(*target, n))
	}
	return nil
}

func openStore(name string, args []string) (save.Store, error) {
	d := defaults()
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	dataDir := fs.String("data-dir", d.DataDir, "path to data directory")
	backend := fs.String("backend", d.SaveBackend, "save backend: json or sqlite")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return save.Open(*backend, *dataDir)
}

func cmdInspect(args []string) error {
	st, err := openStore("inspect", args)
	if err != nil {
		return err
	}
	defer st.Close()

	sum, err := ops.Inspect(context.Background(), st)
	if errors.Is(err, save.ErrNoSave) {
		fmt.Println("no save")
		return nil
	}
	if err != nil {
		return err
	}
	return sum.Write(os.Stdout, message.NewPrinter(language.English))
}

func cmdWipe(args []string) error {
	st, err := openStore("wipe", args)
	if err != nil {
		return err
	}
	defer st.Close()

	where, err := ops.Wipe(context.Background(), st)
	if errors.Is(err, save.ErrNoSave) {
		fmt.Println("no save")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println("save moved to", where)
	return nil
}

func cmdDrill(args []string) error {
	d := defaults()
	fs := flag.NewFlagSet("drill", flag.ContinueOnError)
	dataDir := fs.String("data-dir", d.DataDir, "path to data directory")
	workDir := fs.String("work-dir", os.TempDir(), "temporary workspace for drill artifacts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := os.MkdirAll(*workDir, 0o755); err != nil {
		return err
	}
	ts := time.Now().UTC().Format("20060102T150405Z")
	archive := filepath.Join(*workDir, "idlerpg-drill-"+ts+".tar.gz")
	restoreDir := filepath.Join(*workDir, "idlerpg-drill-restore-"+ts)

	names, err := ops.BackupSaves(*dataDir, archive)
	if err != nil {
		return err
	}
	if _, err := ops.RestoreSaves(archive, restoreDir, false); err != nil {
		return err
	}

	srcDigest, err := digest(*dataDir, names)
	if err != nil {
		return err
	}
	restoreDigest, err := digest(restoreDir, names)
	if err != nil {
		return err
	}
	if srcDigest != restoreDigest {
		return fmt.Errorf("digest mismatch after restore: src=%s restored=%s", srcDigest, restoreDigest)
	}

	fmt.Println("backup:", archive)
	fmt.Println("restored:", restoreDir)
	fmt.Println("digest:", srcDigest)
	return nil
}

// digest hashes the named files of root in the given order.
func digest(root string, names []string) (string, error) {
	h := sha256.New()
	for _, name := range names {
		_, _ = io.WriteString(h, name)
		_, _ = io.WriteString(h, "\n")
		b, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			return "", err
		}
		if _, err := h.Write(b); err != nil {
			return "", err
		}
		_, _ = io.WriteString(h, "\n")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func printUsage() {
	fmt.Println("usage:")
	fmt.Println("  idlerpg-ops backup  --data-dir DIR --out backups/backup.tar.gz")
	fmt.Println("  idlerpg-ops restore --archive backups/backup.tar.gz --data-dir DIR [--force]")
	fmt.Println("  idlerpg-ops inspect --data-dir DIR --backend json|sqlite")
	fmt.Println("  idlerpg-ops wipe    --data-dir DIR --backend json|sqlite")
	fmt.Println("  idlerpg-ops drill   --data-dir DIR --work-dir /tmp")
}
