package timer

import "sync"

type Variable struct {
	Name  string
	Value string
}

// Board forwards to a timer and remembers every variable in the order it was
// first set, for display.
type Board struct {
	Timer

	mutex     sync.Mutex
	order     []string
	variables map[string]string
}

func NewBoard(t Timer) *Board {
	return &Board{
		Timer:     t,
		variables: make(map[string]string),
	}
}

func (b *Board) SetVariable(name, value string) {
	b.mutex.Lock()
	if _, ok := b.variables[name]; !ok {
		b.order = append(b.order, name)
	}
	b.variables[name] = value
	b.mutex.Unlock()

	b.Timer.SetVariable(name, value)
}

func (b *Board) Variables() []Variable {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	vars := make([]Variable, len(b.order))
	for i, name := range b.order {
		vars[i] = Variable{Name: name, Value: b.variables[name]}
	}
	return vars
}

func (b *Board) Get(name string) (string, bool) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	v, ok := b.variables[name]
	return v, ok
}

// Clear forgets all variables. The runner calls it when it detaches from the game.
func (b *Board) Clear() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.order = nil
	b.variables = make(map[string]string)
}
