package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/rise-and-shine/mediasniff/filestore"
	"github.com/rise-and-shine/mediasniff/identify"
	"github.com/rise-and-shine/mediasniff/sniff"
)

//nolint:gochecknoglobals // terminal palette
var (
	typeColor  = color.New(color.FgGreen, color.Bold)
	dimColor   = color.New(color.FgHiBlack)
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed)
)

func printSniff(out io.Writer, path string, res sniff.Result) {
	fmt.Fprintf(out, "%s: %s %s\n",
		path,
		typeColor.Sprint(res.Type.String()),
		dimColor.Sprintf("(%s, %s)", res.Confidence, res.Probe),
	)
}

func printReport(out io.Writer, r *identify.Report, verbose bool) {
	if !verbose {
		fmt.Fprintf(out, "%s: %s\n", r.Ref, typeColor.Sprint(r.Type.String()))
		return
	}

	fmt.Fprintf(out, "%s: %s %s\n",
		r.Ref,
		typeColor.Sprint(r.Type.String()),
		dimColor.Sprintf("(%s, %s, %d bytes read)", r.Confidence, r.Probe, r.BytesRead),
	)
	if r.Mismatch {
		fmt.Fprintf(out, "  %s\n", warnColor.Sprintf("stored content type %q differs", r.StoredContentType))
	}
}

func printFailure(out io.Writer, name string, err error) {
	fmt.Fprintf(out, "%s: %s\n", name, errorColor.Sprint(err.Error()))
}

func printStored(out io.Writer, info *filestore.FileInfo) {
	fmt.Fprintf(out, "stored %s: %s %s\n",
		info.Ref,
		typeColor.Sprint(info.ContentType),
		dimColor.Sprintf("(%d bytes)", info.Size),
	)
}
