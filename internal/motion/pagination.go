package motion

import (
	"context"
	"fmt"

	"github.com/teemow/motionmcp/internal/logging"
)

// ListAllTasks follows nextCursor until the server stops returning one and
// returns every task in server order. Pages are fetched one after another;
// only the first page can come from the cache.
//
// The loop stops with ErrPageLimitExceeded after MaxPages pages, or when the
// server hands back the cursor it was just given.
func (c *Client) ListAllTasks(ctx context.Context, params ListTasksParams, opts ...CallOption) ([]Task, error) {
	all := []Task{}
	cursor := ""
	pages := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.maxPages > 0 && pages >= c.maxPages {
			return nil, &Error{
				Kind:    KindRemote,
				Message: fmt.Sprintf("stopped listing tasks after %d pages", pages),
				Err:     ErrPageLimitExceeded,
			}
		}

		resp, err := c.ListTasks(ctx, params, cursor, opts...)
		if err != nil {
			return nil, err
		}
		pages++
		all = append(all, resp.Tasks...)

		next := resp.NextCursor()
		if next == "" {
			break
		}
		if next == cursor {
			return nil, &Error{
				Kind:    KindRemote,
				Message: fmt.Sprintf("server repeated cursor %q", next),
				Err:     ErrPageLimitExceeded,
			}
		}
		cursor = next
		c.logger.Debug("fetching next task page", logging.KeyPage, pages+1)
	}

	if c.metrics != nil {
		c.metrics.RecordPaginationPages(ctx, pages)
	}
	return all, nil
}
