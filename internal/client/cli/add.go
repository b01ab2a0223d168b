package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"keepsafe/internal/client/models"
)

// add captures a new entry: prompts for the media type, the source file and
// the sharing options, inserts the optimistic row and hands the job to the
// queue. The upload runs in the background so the prompt stays responsive.
func (a *App) add(ctx context.Context) {

	kind, err := GetSimpleText(a.reader, "Entry type (photo/video/audio)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	var entryType models.EntryType
	switch kind {
	case "photo":
		entryType = models.EntryTypePhoto
	case "video":
		entryType = models.EntryTypeVideo
	case "audio":
		entryType = models.EntryTypeAudio
	default:
		fmt.Println("Unknown entry type:", kind)
		return
	}

	sourceURI, err := GetSimpleText(a.reader, "Path of the captured file", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	caption, err := GetSimpleText(a.reader, "Caption (optional)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	private, err := GetYesNo(a.reader, "Keep private", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	var everyone bool
	var friends []string
	if !private {
		everyone, err = GetYesNo(a.reader, "Share with everyone", os.Stdout)
		if err != nil {
			log.Printf("error: %v", err)
			return
		}
		if !everyone {
			friends, err = GetCommaList(a.reader, "Friend ids to share with (comma-separated, empty for none)", os.Stdout)
			if err != nil {
				log.Printf("error: %v", err)
				return
			}
		}
	}

	job := models.NewJob(a.sess.UserID, models.Capture{
		Type:       entryType,
		SourceURI:  sourceURI,
		CapturedAt: time.Now().UTC(),
	})
	job.TextContent = caption
	job.IsPrivate = private
	job.SharedWithEveryone = everyone
	job.SharedWith = friends

	entry := a.feed.AddOptimistic(ctx, job)
	fmt.Printf("Entry %s queued\n", entry.ID)

	go func() {
		if err := a.queue.Enqueue(context.Background(), job); err != nil {
			log.Printf("upload failed: %s", err.Error())
		}
	}()
}
