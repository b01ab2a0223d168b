package cli

import (
	"context"
	"fmt"
	"log"
	"sort"

	"keepsafe/internal/client/models"
)

func formatEntry(e models.Entry) string {
	status := string(e.Status)
	if status == "" {
		status = "synced"
	}
	line := fmt.Sprintf("%s  %s  %-10s  %s", e.CreatedAt.Format("2006-01-02 15:04"), e.ID, status, e.Type)
	if e.TextContent != "" {
		line += "  " + e.TextContent
	}
	if e.Error != "" {
		line += "  (" + e.Error + ")"
	}
	return line
}

func (a *App) list(ctx context.Context) {
	for _, e := range a.feed.Entries(ctx) {
		fmt.Println(formatEntry(e))
	}
}

func (a *App) calendar(ctx context.Context) {
	grouped := a.feed.EntriesByDate(ctx)

	days := make([]string, 0, len(grouped))
	for day := range grouped {
		days = append(days, day)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	for _, day := range days {
		fmt.Println(day)
		for _, e := range grouped[day] {
			fmt.Println("  " + formatEntry(e))
		}
	}
}

func (a *App) retry(ctx context.Context, entryID string) {
	if err := a.feed.Retry(ctx, entryID); err != nil {
		log.Println(err.Error())
		return
	}
	fmt.Println("Entry uploaded")
}

func (a *App) reactions(ctx context.Context, entryID string) {
	items, err := a.feed.Reactions(ctx, entryID)
	if err != nil {
		log.Println(err.Error())
		return
	}

	for _, r := range items {
		fmt.Printf("%s  %s\n", r.UserID, r.Type)
	}
}

func (a *App) comments(ctx context.Context, entryID string) {
	items, err := a.feed.Comments(ctx, entryID)
	if err != nil {
		log.Println(err.Error())
		return
	}

	for _, c := range items {
		fmt.Printf("%s  %s\n", c.UserID, c.Content)
	}
}
