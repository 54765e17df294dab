package models

type Note struct {
	Item
	Done bool `gorm:"not null;default:false" json:"done"`
}

func (n *Note) Base() *Item { return &n.Item }

func (n *Note) Kind() Kind { return NoteKind }

func (n *Note) Flag() bool { return n.Done }
