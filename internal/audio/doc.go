// Package audio handles ID3 tagging of downloaded call recordings.
//
// The provider serves recordings as untagged MP3 files. The Tagger stamps
// each file with the owning call's metadata so a directory of exports is
// usable directly in an audio player:
//
//	tagger := audio.NewTagger()
//	if tagger.Taggable(path) {
//	    err := tagger.SaveTags(path, &call)
//	}
//
// Tagging is cosmetic: failures are reported as warnings by the download
// manager and never affect download tallies.
package audio
