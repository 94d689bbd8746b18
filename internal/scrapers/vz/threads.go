package vz

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// AllThreads crawls the inbox and outbox concurrently and merges them into
// one entry per conversation, newest first.
func (c *Client) AllThreads(ctx context.Context, session Session) ([]Thread, error) {
	var inbox, outbox []MessageBoxItem

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		inbox, err = c.Inbox(groupCtx, session, false)
		return err
	})
	group.Go(func() error {
		var err error
		outbox, err = c.Outbox(groupCtx, session)
		return err
	})
	if err := group.Wait(); err != nil {
		c.tel.ReportWarning(report_client_threads, err)
		return nil, err
	}

	threads := MergeThreads(inbox, outbox)
	c.tel.ReportCount(report_client_threads, int64(len(threads)))
	return threads, nil
}

// MergeThreads groups message box items by DialogId. The first item seen for
// a dialog is kept, its Date is raised to the latest date of the dialog.
// Items without a DialogId are dropped. The result is sorted by Date
// descending, ties are broken by DialogId so the order does not depend on the
// order of the feeds.
func MergeThreads(feeds ...[]MessageBoxItem) []Thread {
	index := map[string]int{}
	threads := []Thread{}

	for _, feed := range feeds {
		for _, item := range feed {
			if item.DialogId == "" {
				continue
			}
			i, seen := index[item.DialogId]
			if !seen {
				index[item.DialogId] = len(threads)
				threads = append(threads, Thread{MessageBoxItem: item})
				continue
			}
			if item.Date.After(threads[i].Date) {
				threads[i].Date = item.Date
			}
		}
	}

	sort.SliceStable(threads, func(i, j int) bool {
		if !threads[i].Date.Equal(threads[j].Date) {
			return threads[i].Date.After(threads[j].Date)
		}
		return threads[i].DialogId < threads[j].DialogId
	})
	return threads
}
