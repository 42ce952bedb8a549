// Package tasks builds the task views and the task-creation flow on top of
// the Motion API client.
//
// It provides:
//   - Views over the full task collection: today, tomorrow, this week,
//     next week, name search and combined filters
//   - The creation assembler, which validates references against the
//     account's workspaces and projects and always enables auto-scheduling
//   - Formatting of tasks for tool output
//
// The tomorrow and next-week views keep their own cache entries, one hour
// each, keyed by the date or date range they cover. Creating a task evicts
// them through the client.
//
// # Example Usage
//
//	svc := tasks.NewService(tasks.ServiceOptions{API: client, Cache: c})
//
//	today, err := svc.Today(ctx, "")
//	if err != nil {
//	    return err
//	}
//
//	created, err := svc.Create(ctx, tasks.Input{
//	    Name:    "Write report",
//	    DueDate: "2024-12-25",
//	}, tasks.ModeTool)
package tasks
