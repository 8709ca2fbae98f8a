package category

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"trading-toolkit/internal/database"
)

var ErrInvalidList = errors.New("invalid list index")

// Hooks persist list membership. Either field may be nil.
type Hooks struct {
	Load func() (map[int][]string, error)
	Save func(map[int][]string) error
}

// Lists holds N disjoint sets. An item is a member of at most one list at any time.
type Lists struct {
	mu    sync.RWMutex
	sets  []*Set
	hooks Hooks
}

// New creates count empty lists and fills them from hooks.Load when set.
func New(count int, hooks Hooks) (*Lists, error) {
	if count <= 0 {
		return nil, errors.Errorf("list count must be positive, got %d", count)
	}

	l := &Lists{sets: make([]*Set, count), hooks: hooks}
	for i := range l.sets {
		l.sets[i] = NewSet()
	}

	if hooks.Load == nil {
		return l, nil
	}
	saved, err := hooks.Load()
	if err != nil {
		return nil, errors.Wrap(err, "could not load lists")
	}
	// Ascending order, so an item saved in several lists ends up in the highest one.
	indexes := make([]int, 0, len(saved))
	for index := range saved {
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)
	for _, index := range indexes {
		items := saved[index]
		if index < 0 || index >= count {
			log.Warnf("dropping %d items of list %d, only %d lists configured", len(items), index, count)
			continue
		}
		for _, item := range items {
			l.add(index, item)
		}
	}
	return l, nil
}

func (l *Lists) Count() int {
	return len(l.sets)
}

func (l *Lists) check(index int) error {
	if index < 0 || index >= len(l.sets) {
		return errors.Wrapf(ErrInvalidList, "%d not in [0,%d)", index, len(l.sets))
	}
	return nil
}

// add puts item into index first and only then sweeps it out of every other list.
func (l *Lists) add(index int, item string) {
	l.sets[index].Add(item)
	for i, set := range l.sets {
		if i != index {
			set.Remove(item)
		}
	}
}

func (l *Lists) Add(index int, item string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.check(index); err != nil {
		return err
	}
	prev, had := l.indexOf(item)
	l.add(index, item)
	return l.saveOrRestore(item, prev, had)
}

func (l *Lists) Remove(index int, item string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.check(index); err != nil {
		return err
	}
	prev, had := l.indexOf(item)
	l.sets[index].Remove(item)
	return l.saveOrRestore(item, prev, had)
}

// Toggle removes item from index if present there, otherwise moves it there.
func (l *Lists) Toggle(index int, item string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.check(index); err != nil {
		return err
	}
	prev, had := l.indexOf(item)
	if l.sets[index].Has(item) {
		l.sets[index].Remove(item)
	} else {
		l.add(index, item)
	}
	return l.saveOrRestore(item, prev, had)
}

func (l *Lists) Contains(index int, item string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.check(index) != nil {
		return false
	}
	return l.sets[index].Has(item)
}

func (l *Lists) ContainsInAny(item string) bool {
	_, ok := l.IndexOf(item)
	return ok
}

// IndexOf reports which list holds item.
func (l *Lists) IndexOf(item string) (int, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.indexOf(item)
}

func (l *Lists) indexOf(item string) (int, bool) {
	for i, set := range l.sets {
		if set.Has(item) {
			return i, true
		}
	}
	return -1, false
}

// List returns the sorted members of one list.
func (l *Lists) List(index int) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err := l.check(index); err != nil {
		return nil, err
	}
	return l.sets[index].Items(), nil
}

// Snapshot copies every non-empty list.
func (l *Lists) Snapshot() map[int][]string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.snapshot()
}

func (l *Lists) snapshot() map[int][]string {
	out := make(map[int][]string)
	for i, set := range l.sets {
		if set.Len() > 0 {
			out[i] = set.Items()
		}
	}
	return out
}

// saveOrRestore persists the lists. When Save fails the item goes back to
// where it was before the mutation, so memory never runs ahead of storage.
func (l *Lists) saveOrRestore(item string, prev int, had bool) error {
	err := l.save()
	if err == nil {
		return nil
	}
	for _, set := range l.sets {
		set.Remove(item)
	}
	if had {
		l.sets[prev].Add(item)
	}
	return err
}

func (l *Lists) save() error {
	if l.hooks.Save == nil {
		return nil
	}
	return errors.Wrap(l.hooks.Save(l.snapshot()), "could not save lists")
}

// StoreHooks keeps the lists as JSON under key.
func StoreHooks(store database.KeyValueStore, key string) Hooks {
	return Hooks{
		Load: func() (map[int][]string, error) {
			raw, ok, err := store.Get(key)
			if err != nil || !ok {
				return nil, err
			}
			var saved map[int][]string
			if err := json.Unmarshal([]byte(raw), &saved); err != nil {
				return nil, errors.Wrapf(err, "corrupt lists under %s", key)
			}
			return saved, nil
		},
		Save: func(lists map[int][]string) error {
			raw, err := json.Marshal(lists)
			if err != nil {
				return err
			}
			return store.Set(key, string(raw))
		},
	}
}
