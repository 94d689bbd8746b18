package restyutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	mutex     sync.Mutex
	exchanges map[string]string
}

func (o *memoryOutput) Write(id string, contents string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.exchanges[id] = contents
}

func TestDumpExchanges(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Page", r.URL.Path)
		_, _ = w.Write([]byte("<p>hallo</p>"))
	}))
	defer server.Close()

	output := &memoryOutput{exchanges: map[string]string{}}
	dumper := NewDumper(output)
	client := resty.New().SetBaseURL(server.URL)
	dumper.Instrument(client)
	other := resty.New().SetBaseURL(server.URL)
	dumper.Instrument(other)

	_, err := client.R().Get("/msg_in.php?p=0")
	require.NoError(t, err)
	_, err = other.R().SetBody("name=anna").Post("/action_login.php")
	require.NoError(t, err)

	require.Len(t, output.exchanges, 2)

	get := output.exchanges["0001_msg_in.php"]
	require.Contains(t, get, "---- REQUEST ----\n\nGET "+server.URL+"/msg_in.php?p=0")
	require.Contains(t, get, "---- RESPONSE ----\n\n200 ")
	require.Contains(t, get, "X-Page: /msg_in.php")
	require.Contains(t, get, "<p>hallo</p>")

	post := output.exchanges["0002_action_login.php"]
	require.Contains(t, post, "POST "+server.URL+"/action_login.php")
	require.Contains(t, post, "name=anna")
}

func TestFormatRequestBody(t *testing.T) {
	require.Equal(t, "", formatRequestBody(nil))

	req, err := http.NewRequest(http.MethodGet, "https://sexvz.net/online.php", nil)
	require.NoError(t, err)
	require.Equal(t, "", formatRequestBody(req))

	// bodyless requests sent by resty carry a GetBody that yields no reader
	req.GetBody = func() (io.ReadCloser, error) { return nil, nil }
	require.Equal(t, "", formatRequestBody(req))

	req, err = http.NewRequest(http.MethodPost, "https://sexvz.net/action_login.php", strings.NewReader("name=anna"))
	require.NoError(t, err)
	require.Equal(t, "name=anna", formatRequestBody(req))
}

func TestNilDumper(t *testing.T) {
	dumper := NewDumper(nil)
	require.Nil(t, dumper)
	dumper.Instrument(resty.New())
}

func TestExchangeId(t *testing.T) {
	require.Equal(t, "0001_msg_in.php", exchangeId(1, "https://sexvz.net/msg_in.php?p=0"))
	require.Equal(t, "0012_index", exchangeId(12, "https://sexvz.net/"))
	require.Equal(t, "0003_photo_a_b.jpg", exchangeId(3, "https://sexvz.net/photo/a%20b.jpg"))
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dump")
	require.NoError(t, os.MkdirAll(dir, 0777))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale"), []byte("old"), 0600))

	output, err := NewFilesystemOutput(dir)
	require.NoError(t, err)
	output.Write("0001_online.php", "contents")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	contents, err := os.ReadFile(filepath.Join(dir, "0001_online.php"))
	require.NoError(t, err)
	require.Equal(t, "contents", string(contents))
}
