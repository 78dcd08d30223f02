package models

import (
	"github.com/PizzaHomicide/koma/internal/library"
	"github.com/PizzaHomicide/koma/internal/scrub"
)

// StateMsg carries a controller snapshot into the update loop
type StateMsg struct {
	State scrub.State
}

// LibraryLoadedMsg is sent when the library directory has been scanned
type LibraryLoadedMsg struct {
	Items []library.Item
}

// LibraryErrorMsg is sent when the library directory could not be scanned
type LibraryErrorMsg struct {
	Error error
}

// MediaSelectedMsg is sent when the user picks an item to open
type MediaSelectedMsg struct {
	Item library.Item
}

// SessionOpenedMsg is sent once the players for an item are running
type SessionOpenedMsg struct {
	Item    library.Item
	Session Session
}

// SessionErrorMsg is sent when the players for an item could not be started
type SessionErrorMsg struct {
	Item  library.Item
	Error error
}

// SessionEndedMsg is sent when the player goes away on its own, e.g. its window was closed
type SessionEndedMsg struct {
	Session Session
}

// CloseMediaMsg asks the app to close the open media and return to the library
type CloseMediaMsg struct{}

// SessionClosedMsg is sent once a closed session's players have stopped
type SessionClosedMsg struct {
	Quit bool
}
