package scheduler

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/robfig/cron/v3"
)

// Backup periodically copies the history file aside, so a crash during the
// full-file rewrite cannot take the only copy with it.
type Backup struct {
	cron *cron.Cron
	src  string
}

func NewBackup(src string) *Backup {
	return &Backup{cron: cron.New(), src: src}
}

// Start registers the copy job under the given cron spec and starts the
// scheduler.
func (b *Backup) Start(spec string) error {
	_, err := b.cron.AddFunc(spec, func() {
		if err := copyFile(b.src, b.src+".bak"); err != nil {
			log.Printf("history backup failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule backup: %w", err)
	}
	b.cron.Start()
	log.Printf("history backup scheduled (%s)", spec)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (b *Backup) Stop() {
	ctx := b.cron.Stop()
	<-ctx.Done()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			// Nothing to back up yet.
			return nil
		}
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
