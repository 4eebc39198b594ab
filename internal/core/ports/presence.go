package ports

// Presence tracks which accounts have a live session against this process.
// It is entirely in-memory and a restart empties it: presence answers "is a
// session live right now", not "has this account ever connected".
type Presence interface {
	MarkOnline(username string)
	MarkOffline(username string)
	IsOnline(username string) bool
	Clear()
}
