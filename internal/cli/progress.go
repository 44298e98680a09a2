package cli

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"pdfslim/internal/services"
)

// batchReporter renders one page-progress bar per file as batch events arrive.
type batchReporter struct {
	bar    *progressbar.ProgressBar
	fileID string
}

func newBatchReporter() *batchReporter {
	return &batchReporter{}
}

func (r *batchReporter) handle(event services.ProgressEvent) {
	switch event.Status {
	case services.StatusCompressing:
		if event.PageCount == 0 {
			return
		}
		if r.bar == nil || r.fileID != event.FileID {
			r.abandon()
			r.fileID = event.FileID
			r.bar = newPageBar(event.Filename, event.FileIndex, event.FileCount, event.PageCount)
		}
		_ = r.bar.Set(event.Page)
	case services.StatusCompleted:
		r.finish()
	case services.StatusError:
		r.abandon()
	}
}

// close drops whatever bar is still on screen, for early exits.
func (r *batchReporter) close() {
	r.abandon()
}

// finish completes the current bar. Reaching the final page already triggered
// the completion newline, so this only resets state.
func (r *batchReporter) finish() {
	if r.bar == nil {
		return
	}
	_ = r.bar.Finish()
	r.bar = nil
}

// abandon leaves an unfinished bar where it is and moves to the next line.
func (r *batchReporter) abandon() {
	if r.bar == nil {
		return
	}
	_ = r.bar.Exit()
	fmt.Fprint(os.Stderr, "\n")
	r.bar = nil
}

func newPageBar(filename string, index, count, pages int) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		pages,
		progressbar.OptionSetDescription(fmt.Sprintf("[%d/%d] %s", index, count, filename)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("pages"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
	)
}
