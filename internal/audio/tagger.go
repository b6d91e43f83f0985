package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"

	"github.com/calltools/callrail-exporter/internal/model"
)

// Tagger writes ID3 tags to downloaded call recordings.
//
// Recordings arrive from the provider as bare MP3 files; tagging them with
// the owning call's metadata makes an exported directory browsable in any
// audio player:
//   - Title: caller name or number plus the call date
//   - Artist: the attributed marketing source
//   - Album: "Call Recordings"
//   - Year/recording time from the call start
//   - A comment carrying the provider call ID
//
// Example:
//
//	tagger := NewTagger()
//	if err := tagger.SaveTags(path, call); err != nil {
//	    log.Printf("failed to tag %s: %v", path, err)
//	}
type Tagger struct{}

// NewTagger creates a new Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// Taggable reports whether the file at path can carry ID3 tags.
func (t *Tagger) Taggable(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".mp3")
}

// SaveTags writes ID3 tags derived from the call onto the recording file.
//
// This method:
//  1. Opens the MP3 file (or starts from empty tags if none exist)
//  2. Writes title, artist, album, and date frames from the call
//  3. Attaches the call ID as a comment frame
//  4. Saves the modified tags to the file
//
// Returns an error if the file cannot be opened or saved. Tag contents are
// derived metadata only; callers treat failures as warnings, never as a
// failed download.
func (t *Tagger) SaveTags(path string, call *model.CallRecord) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		// If file doesn't have tags, create new
		if os.IsNotExist(err) {
			tag = id3v2.NewEmptyTag()
		} else {
			return err
		}
	}
	defer tag.Close()

	title := call.Caller()
	if !call.StartTime.IsZero() {
		title = fmt.Sprintf("%s - %s", title, call.StartTime.Format("2006-01-02 15:04"))
	}
	tag.SetTitle(title)

	if call.SourceName != "" {
		tag.SetArtist(call.SourceName)
	}
	tag.SetAlbum("Call Recordings")

	if !call.StartTime.IsZero() {
		// TYER (ID3v2.3) and TDRC (ID3v2.4); players vary in which they read.
		tag.AddTextFrame("TYER", id3v2.EncodingUTF8, call.StartTime.Format("2006"))
		tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, call.StartTime.Format("2006-01-02T15:04:05"))
	}

	tag.AddCommentFrame(id3v2.CommentFrame{
		Encoding:    id3v2.EncodingUTF8,
		Language:    "eng",
		Description: "call-id",
		Text:        call.ID,
	})

	return tag.Save()
}
