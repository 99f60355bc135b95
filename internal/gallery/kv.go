package gallery

import (
	"time"

	"meme_gallery/internal/gallery/copyformat"

	gocache "github.com/patrickmn/go-cache"
)

// Ключи клиентских предпочтений.
const (
	keyCopyFormat = "copyFormat"
	keyIsAdmin    = "isAdmin"
)

// KV — внедряемая способность "локальное/сессионное хранилище": get/set по
// строковому ключу. Ядро не знает, стоит ли за ней браузерное хранилище или
// память.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// MemKV — реализация KV поверх go-cache. Нулевой ttl даёт бессрочное
// (локальное) хранилище, положительный — сессионное с истечением.
type MemKV struct {
	c *gocache.Cache
}

func NewMemKV(ttl time.Duration) *MemKV {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &MemKV{c: gocache.New(ttl, 10*time.Minute)}
}

func (m *MemKV) Get(key string) (string, bool) {
	v, ok := m.c.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (m *MemKV) Set(key, value string) {
	m.c.SetDefault(key, value)
}

// RestorePreferences читает сохранённые предпочтения в состояние.
func RestorePreferences(s State, local, session KV) State {
	if v, ok := local.Get(keyCopyFormat); ok {
		if f, err := copyformat.ParseFormat(v); err == nil {
			s.Format = f
		}
	}
	if v, ok := session.Get(keyIsAdmin); ok {
		s.IsAdmin = v == "true"
	}
	return s
}

// Apply выполняет команды сохранения против внедрённых хранилищ. Поисковая
// команда остаётся исполнителю цикла событий.
func Apply(cmds []Command, local, session KV) {
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case PersistFormatCommand:
			local.Set(keyCopyFormat, string(c.Format))
		case PersistAdminCommand:
			if c.OK {
				session.Set(keyIsAdmin, "true")
			} else {
				session.Set(keyIsAdmin, "false")
			}
		}
	}
}
