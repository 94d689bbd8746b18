// Package restyutil dumps the http exchanges of a resty client, the dumps are
// the raw material for scraper test fixtures.
package restyutil

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// Output receives one rendered exchange per response.
type Output interface {
	Write(id string, contents string)
}

type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput empties dir and writes every exchange into it as its own
// file.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.RemoveAll(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write exchange file", "id", id, "err", err)
	}
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// exchangeId is a sortable file name, ex. "0003_msg_in.php".
func exchangeId(n uint64, rawUrl string) string {
	path := rawUrl
	parsed, err := url.Parse(rawUrl)
	if err == nil {
		path = parsed.Path
	}
	name := unsafeFilename.ReplaceAllString(strings.Trim(path, "/"), "_")
	if name == "" {
		name = "index"
	}
	return fmt.Sprintf("%04d_%s", n, name)
}

// Dumper writes every response of the clients it instruments to an output,
// the exchanges of all clients share one numbering.
type Dumper struct {
	output  Output
	counter uint64
}

// NewDumper returns nil for a nil output, instrumenting with a nil Dumper
// leaves the client untouched.
func NewDumper(output Output) *Dumper {
	if output == nil {
		return nil
	}
	return &Dumper{output: output}
}

func (d *Dumper) Instrument(client *resty.Client) {
	if d == nil {
		return
	}
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		n := atomic.AddUint64(&d.counter, 1)
		d.output.Write(exchangeId(n, res.Request.URL), FormatExchange(res))
		return nil
	})
}
