package model

import "time"

// File is the registry record linking a stored object to its owner.
//
// StoredName is the generated on-disk name (`<uuid>.<ext>`) — unique,
// immutable, and never derived from user input, so it is safe to join onto
// the upload root. OriginalName is the client-supplied filename, kept for
// display and as the suggested download name only.
//
// While a File row exists its StoredName must correspond to exactly one
// object under the upload root. OwnerID is checked on every read and delete;
// it is the sole access-control mechanism for stored objects.
type File struct {
	ID           string    `json:"id"`
	StoredName   string    `json:"storedName"`
	OriginalName string    `json:"originalName"`
	OwnerID      string    `json:"ownerId"`
	UploadedAt   time.Time `json:"uploadedAt"`
}
