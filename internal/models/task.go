package models

type Task struct {
	Item
	Completed bool `gorm:"not null;default:false" json:"completed"`
}

func (t *Task) Base() *Item { return &t.Item }

func (t *Task) Kind() Kind { return TaskKind }

func (t *Task) Flag() bool { return t.Completed }
