package config

import "fmt"

// Editing operations used by the smartdash edit CLI. They mutate the
// in-memory configuration; callers persist the result with Save.

// FindRoom returns the first room with the given name.
// Returns ErrRoomNotFound if no room matches.
func (c *Config) FindRoom(name string) (*Room, error) {
	for _, room := range c.Rooms {
		if room.Name == name {
			return room, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrRoomNotFound, name)
}

// MoveCard moves the card at index from to index to within the named room.
// The to index addresses the position after removal, so to == len(cards)-1
// moves a card to the end.
func (c *Config) MoveCard(roomName string, from, to int) error {
	room, err := c.FindRoom(roomName)
	if err != nil {
		return err
	}
	if from < 0 || from >= len(room.Cards) {
		return fmt.Errorf("%w: from %d", ErrCardIndexOutOfRange, from)
	}
	if to < 0 || to > len(room.Cards) {
		return fmt.Errorf("%w: to %d", ErrCardIndexOutOfRange, to)
	}
	card := room.Cards[from]
	room.Cards = append(room.Cards[:from], room.Cards[from+1:]...)
	if to > len(room.Cards) {
		to = len(room.Cards)
	}
	room.Cards = append(room.Cards[:to], append([]*Card{card}, room.Cards[to:]...)...)
	return nil
}

// SetRoomHidden flips the hidden flag on the named room.
func (c *Config) SetRoomHidden(roomName string, hidden bool) error {
	room, err := c.FindRoom(roomName)
	if err != nil {
		return err
	}
	room.Hidden = hidden
	return nil
}

// AddShortcut appends a sidebar shortcut targeting the given view.
func (c *Config) AddShortcut(name, icon, view string) {
	item := &SidebarItem{Name: name, View: view}
	if icon != "" {
		item.Icon = icon
	}
	c.Sidebar = append(c.Sidebar, item)
}
