package model

// ImageEntry is one image read out of an uploaded archive.
// Path is the full entry name inside the archive, using "/" separators.
type ImageEntry struct {
	Path string
	Data []byte
}

// FolderGroup is the set of image entries sharing a directory prefix,
// kept in the order they were found in the archive.
type FolderGroup struct {
	Folder  string
	Entries []ImageEntry
}
