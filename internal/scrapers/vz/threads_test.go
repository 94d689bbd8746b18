package vz

import (
	"context"
	"testing"
	"time"

	"vzchat-backend/internal/components/chrono"

	"github.com/stretchr/testify/require"
)

func at(day, hour int) time.Time {
	return time.Date(2024, time.July, day, hour, 0, 0, 0, chrono.Berlin())
}

type threadKey struct {
	dialogId string
	date     time.Time
}

func threadKeys(threads []Thread) []threadKey {
	keys := make([]threadKey, len(threads))
	for i, thread := range threads {
		keys[i] = threadKey{dialogId: thread.DialogId, date: thread.Date.UTC()}
	}
	return keys
}

func TestMergeThreads(t *testing.T) {
	inbox := []MessageBoxItem{
		{Id: "1", DialogId: "a", Subject: "inbox a", Date: at(3, 10)},
		{Id: "2", DialogId: "b", Subject: "inbox b", Date: at(1, 10)},
		{Id: "3", DialogId: "a", Subject: "inbox a older", Date: at(2, 10)},
		{Id: "4", DialogId: "", Subject: "system", Date: at(9, 10)},
	}
	outbox := []MessageBoxItem{
		{Id: "5", DialogId: "b", Subject: "outbox b", Date: at(4, 10)},
		{Id: "6", DialogId: "c", Subject: "outbox c", Date: at(2, 12)},
	}

	threads := MergeThreads(inbox, outbox)

	require.Equal(t, []threadKey{
		{dialogId: "b", date: at(4, 10).UTC()},
		{dialogId: "a", date: at(3, 10).UTC()},
		{dialogId: "c", date: at(2, 12).UTC()},
	}, threadKeys(threads))

	// the first item seen for a dialog is kept, only its date is raised
	require.Equal(t, "2", threads[0].Id)
	require.Equal(t, "inbox b", threads[0].Subject)
	require.Equal(t, "1", threads[1].Id)
}

func TestMergeThreadsIsCommutative(t *testing.T) {
	inbox := []MessageBoxItem{
		{DialogId: "a", Date: at(3, 10)},
		{DialogId: "b", Date: at(1, 10)},
		{DialogId: "d", Date: at(5, 10)},
	}
	outbox := []MessageBoxItem{
		{DialogId: "b", Date: at(4, 10)},
		{DialogId: "c", Date: at(5, 10)},
		{DialogId: "a", Date: at(1, 10)},
	}

	forward := threadKeys(MergeThreads(inbox, outbox))
	backward := threadKeys(MergeThreads(outbox, inbox))
	require.Equal(t, forward, backward)

	// equal dates are ordered by dialog id
	require.Equal(t, "c", forward[0].dialogId)
	require.Equal(t, "d", forward[1].dialogId)
}

func TestMergeThreadsEmpty(t *testing.T) {
	threads := MergeThreads(nil, nil)
	require.NotNil(t, threads)
	require.Empty(t, threads)

	threads = MergeThreads([]MessageBoxItem{{DialogId: ""}})
	require.Empty(t, threads)
}

func TestAllThreads(t *testing.T) {
	site := newFakeSite(t)
	serveBox(site, endpoint_inbox,
		[]testItem{
			{msgId: "10", dialogId: "1", unread: true, date: "3.7.2024 21:05:09"},
			{msgId: "11", dialogId: "2", date: "2.7.2024 10:00:00"},
		},
	)
	serveBox(site, endpoint_outbox,
		[]testItem{
			{msgId: "20", dialogId: "2", date: "4.7.2024 8:00:00"},
			{msgId: "21", dialogId: "3", date: "1.7.2024 8:00:00"},
		},
	)
	client, _ := site.client(t)

	threads, err := client.AllThreads(context.Background(), testSession(t))
	require.NoError(t, err)

	var dialogs []string
	for _, thread := range threads {
		dialogs = append(dialogs, thread.DialogId)
	}
	require.Equal(t, []string{"2", "1", "3"}, dialogs)
	require.True(t, threads[0].Date.Equal(time.Date(2024, time.July, 4, 8, 0, 0, 0, chrono.Berlin())))
}

func TestAllThreadsFailsWithEitherBox(t *testing.T) {
	site := newFakeSite(t)
	serveBox(site, endpoint_inbox,
		[]testItem{{msgId: "10", dialogId: "1", date: "3.7.2024 21:05:09"}},
	)
	// the outbox is not registered, the site answers with its 404 page
	client, _ := site.client(t)

	_, err := client.AllThreads(context.Background(), testSession(t))
	require.ErrorIs(t, err, ErrMissingContent)
}
