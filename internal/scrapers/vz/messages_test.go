package vz

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"vzchat-backend/internal/components/chrono"

	_ "embed"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/inbox.html
var inboxPage string

func TestParseMessagePage(t *testing.T) {
	client, _ := offlineClient(t)
	doc, err := goquery.NewDocumentFromReader(bytes.NewBufferString(inboxPage))
	require.NoError(t, err)

	page, err := client.parseMessagePage(doc, BOX_INBOX, 0)
	require.NoError(t, err)

	require.True(t, page.HasUnread)
	require.NotNil(t, page.TotalPages)
	require.Equal(t, 2, *page.TotalPages)

	expected := []MessageBoxItem{
		{
			Id:       "5001",
			DialogId: "d100",
			Subject:  "Hallo du",
			Unread:   true,
			Date:     time.Date(2024, time.July, 3, 21, 5, 9, 0, chrono.Berlin()),
			User: MessageUser{
				Id:         "u100",
				Name:       "Anna_B",
				Location:   "Berlin",
				ProfileUrl: "https://sexvz.net/view_profile.php?c=u100",
				ImageUrl:   "https://sexvz.net/photo/a1b2c3med.jpg",
			},
			MessageUrl: "https://sexvz.net/msg_read.php?msg=5001&d=d100#go",
		},
		{
			Id:       "4990",
			DialogId: "d200",
			Subject:  "Treffen?",
			Deleted:  true,
			Date:     time.Date(2023, time.December, 12, 8, 0, 0, 0, chrono.Berlin()),
			User: MessageUser{
				Id:         "u200",
				Name:       "Tom&Tina",
				Location:   "Hamburg",
				ProfileUrl: "https://sexvz.net/view_profile.php?c=u200",
				ImageUrl:   "https://sexvz.net/photo/d4e5f6med.jpg",
			},
			MessageUrl: "https://sexvz.net/msg_read.php?msg=4990&d=d200#go",
		},
	}
	if diff := cmp.Diff(expected, page.Items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}

	// dates are german wall-clock time: CEST in july, CET in december
	require.Equal(t, time.Date(2024, time.July, 3, 19, 5, 9, 0, time.UTC), page.Items[0].Date.UTC())
	require.Equal(t, time.Date(2023, time.December, 12, 7, 0, 0, 0, time.UTC), page.Items[1].Date.UTC())
}

func TestParseMessagePageLaterPage(t *testing.T) {
	client, _ := offlineClient(t)
	doc, err := goquery.NewDocumentFromReader(bytes.NewBufferString(inboxPage))
	require.NoError(t, err)

	page, err := client.parseMessagePage(doc, BOX_INBOX, 1)
	require.NoError(t, err)
	require.Nil(t, page.TotalPages)
}

func TestParseMessagePageWithoutPager(t *testing.T) {
	client, _ := offlineClient(t)
	doc, err := goquery.NewDocumentFromReader(bytes.NewBufferString(
		`<html><body><div id="content">Keine Nachrichten.</div></body></html>`,
	))
	require.NoError(t, err)

	page, err := client.parseMessagePage(doc, BOX_OUTBOX, 0)
	require.NoError(t, err)
	require.NotNil(t, page.Items)
	require.Empty(t, page.Items)
	require.False(t, page.HasUnread)
	require.NotNil(t, page.TotalPages)
	require.Equal(t, 0, *page.TotalPages)
}

func TestParseMessagePageMissingContent(t *testing.T) {
	client, _ := offlineClient(t)
	doc, err := goquery.NewDocumentFromReader(bytes.NewBufferString(loggedOutPage))
	require.NoError(t, err)

	_, err = client.parseMessagePage(doc, BOX_INBOX, 0)
	require.ErrorIs(t, err, ErrMissingContent)
}

type testItem struct {
	msgId    string
	dialogId string
	unread   bool
	date     string
}

func renderTestItem(item testItem) string {
	marker := ""
	if item.unread {
		marker = "[ungelesen]"
	}
	return fmt.Sprintf(`<div class="item" id="%s">
  <a href="view_profile.php?c=u%s" style="color:grey">User %s</a> Berlin<br>
  <span class="csstabmsg"><b>Vom:</b></span> %s<br>
  <span class="csstabmsg"><b>Betreff:</b></span> <font><a href="msg_read.php?msg=%s&amp;d=%s">Betreff %s</a></font> %s
</div>`,
		item.dialogId,
		item.dialogId, item.dialogId,
		item.date,
		item.msgId, item.dialogId, item.msgId,
		marker,
	)
}

func renderTestMessagePage(lastPage int, items ...testItem) string {
	var body strings.Builder
	body.WriteString(`<html><body><div id="content">`)
	if lastPage > 0 {
		body.WriteString(`<div class="pager">`)
		for p := 0; p <= lastPage; p++ {
			fmt.Fprintf(&body, `<a href="?p=%d">%d</a> `, p, p)
		}
		body.WriteString(`</div>`)
	}
	for _, item := range items {
		body.WriteString(renderTestItem(item))
	}
	body.WriteString(`</div></body></html>`)
	return body.String()
}

// serveBox registers the pages of a box, pages past the end render empty.
func serveBox(site *fakeSite, endpoint string, pages ...[]testItem) {
	lastPage := len(pages) - 1
	site.page(endpoint, func(r *http.Request) string {
		var p int
		_, err := fmt.Sscanf(r.URL.Query().Get("p"), "%d", &p)
		if err != nil || p < 0 || p > lastPage {
			return renderTestMessagePage(lastPage)
		}
		return renderTestMessagePage(lastPage, pages[p]...)
	})
}

func inboxRequests(site *fakeSite) []string {
	var out []string
	for _, uri := range site.requests() {
		if strings.HasPrefix(uri, endpoint_inbox) {
			out = append(out, uri)
		}
	}
	return out
}

func TestInboxCrawlsEveryPage(t *testing.T) {
	site := newFakeSite(t)
	serveBox(site, endpoint_inbox,
		[]testItem{
			{msgId: "10", dialogId: "1", unread: true, date: "3.7.2024 21:05:09"},
			{msgId: "11", dialogId: "2", date: "2.7.2024 10:00:00"},
		},
		[]testItem{
			{msgId: "12", dialogId: "3", date: "1.7.2024 10:00:00"},
		},
		[]testItem{
			{msgId: "13", dialogId: "4", unread: true, date: "30.6.2024 10:00:00"},
		},
	)
	client, rec := site.client(t)

	items, err := client.Inbox(context.Background(), testSession(t), false)
	require.NoError(t, err)

	var ids []string
	for _, item := range items {
		ids = append(ids, item.Id)
	}
	require.Equal(t, []string{"10", "11", "12", "13"}, ids)
	require.Equal(t, []string{
		"/msg_in.php?full=1&p=0",
		"/msg_in.php?full=1&p=1",
		"/msg_in.php?full=1&p=2",
	}, inboxRequests(site))

	counts := rec.Reports("count")
	require.NotEmpty(t, counts)
	require.Equal(t, []any{int64(4)}, counts[len(counts)-1].Params)
}

func TestInboxUnreadStopsAtFirstPageWithoutUnread(t *testing.T) {
	site := newFakeSite(t)
	serveBox(site, endpoint_inbox,
		[]testItem{
			{msgId: "10", dialogId: "1", unread: true, date: "3.7.2024 21:05:09"},
			{msgId: "11", dialogId: "2", date: "2.7.2024 10:00:00"},
		},
		[]testItem{
			{msgId: "12", dialogId: "3", date: "1.7.2024 10:00:00"},
		},
		[]testItem{
			{msgId: "13", dialogId: "4", unread: true, date: "30.6.2024 10:00:00"},
		},
	)
	client, _ := site.client(t)

	items, err := client.Inbox(context.Background(), testSession(t), true)
	require.NoError(t, err)

	require.Len(t, items, 1)
	require.Equal(t, "10", items[0].Id)
	require.True(t, items[0].Unread)
	require.Equal(t, []string{
		"/msg_in.php?full=1&p=0",
		"/msg_in.php?full=1&p=1",
	}, inboxRequests(site))
}

func TestInboxSinglePage(t *testing.T) {
	site := newFakeSite(t)
	serveBox(site, endpoint_inbox,
		[]testItem{
			{msgId: "10", dialogId: "1", unread: true, date: "3.7.2024 21:05:09"},
		},
	)
	client, _ := site.client(t)

	// with unread items on the only page the pager still ends the crawl
	items, err := client.Inbox(context.Background(), testSession(t), true)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, []string{"/msg_in.php?full=1&p=0"}, inboxRequests(site))
}

func TestOutbox(t *testing.T) {
	site := newFakeSite(t)
	serveBox(site, endpoint_outbox,
		[]testItem{{msgId: "20", dialogId: "1", date: "4.7.2024 8:00:00"}},
		[]testItem{{msgId: "21", dialogId: "5", date: "1.1.2024 8:00:00"}},
	)
	client, _ := site.client(t)

	items, err := client.Outbox(context.Background(), testSession(t))
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "u5", items[1].User.Id)
	require.Equal(t, site.server.URL+"/msg_read.php?msg=21&d=5", items[1].MessageUrl)
	require.Empty(t, inboxRequests(site))
}
