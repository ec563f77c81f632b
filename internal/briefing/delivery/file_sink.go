package delivery

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go-stock-briefing/internal/briefing/report"
	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/logger"
)

// FileSink writes the markdown report to the report directory, overwriting
// any previous artifact for the same date. In stdout-only mode the full
// report goes to the output stream instead of disk.
type FileSink struct {
	log            *logger.Logger
	dir            string
	filenameFormat string
	stdoutOnly     bool
	out            io.Writer
}

// NewFileSink creates the report-file sink. A nil out defaults to stdout.
func NewFileSink(log *logger.Logger, dir, filenameFormat string, stdoutOnly bool, out io.Writer) *FileSink {
	if out == nil {
		out = os.Stdout
	}
	return &FileSink{
		log:            log,
		dir:            dir,
		filenameFormat: filenameFormat,
		stdoutOnly:     stdoutOnly,
		out:            out,
	}
}

func (s *FileSink) Name() string { return "report_file" }

func (s *FileSink) Deliver(_ context.Context, r *entity.RunReport, markdown string) error {
	if s.stdoutOnly {
		_, err := fmt.Fprintln(s.out, markdown)
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return s.fallback(markdown, fmt.Errorf("failed to create report directory: %w", err))
	}

	path := filepath.Join(s.dir, report.Filename(r, s.filenameFormat))
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return s.fallback(markdown, fmt.Errorf("failed to write report: %w", err))
	}

	s.log.Info("Wrote briefing report",
		logger.StringField("path", path),
		logger.StringField("status", string(r.Status)),
	)
	fmt.Fprintf(s.out, "Wrote briefing report: %s\n", path)
	return nil
}

// fallback emits the full report on the output stream when the disk write
// fails, so the briefing is never lost to a filesystem problem.
func (s *FileSink) fallback(markdown string, cause error) error {
	s.log.Error("Report file write failed, emitting to output stream", logger.ErrorField(cause))
	_, err := fmt.Fprintln(s.out, markdown)
	return err
}
