// Package repotest tiene implementaciones en memoria de los repositorios
// para tests de services, controllers y router.
package repotest

import (
	"context"
	"sync"

	"github.com/Rock1274/MiniBodegaWeb/internal/domain/repository"
)

// Users es un UserRepository en memoria. Err, si no es nil, lo devuelve
// cualquier operación.
type Users struct {
	mu    sync.Mutex
	rows  []repository.User
	Err   error
	Calls map[string]int
}

// NewUsers crea el repositorio con las filas dadas.
func NewUsers(rows ...repository.User) *Users {
	return &Users{rows: append([]repository.User(nil), rows...), Calls: map[string]int{}}
}

func (u *Users) find(match func(repository.User) bool) (*repository.User, error) {
	for _, r := range u.rows {
		if match(r) {
			cp := r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (u *Users) GetByCredentials(_ context.Context, username, encodedSecret string) (*repository.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Calls["GetByCredentials"]++
	if u.Err != nil {
		return nil, u.Err
	}
	return u.find(func(r repository.User) bool {
		return r.Username == username && r.EncodedSecret == encodedSecret
	})
}

func (u *Users) GetByEmail(_ context.Context, email string) (*repository.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Calls["GetByEmail"]++
	if u.Err != nil {
		return nil, u.Err
	}
	return u.find(func(r repository.User) bool { return r.Email == email })
}

func (u *Users) GetByUsername(_ context.Context, username string) (*repository.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Calls["GetByUsername"]++
	if u.Err != nil {
		return nil, u.Err
	}
	return u.find(func(r repository.User) bool { return r.Username == username })
}

func (u *Users) UpdateSecretByEmail(_ context.Context, email, encodedSecret string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Calls["UpdateSecretByEmail"]++
	if u.Err != nil {
		return u.Err
	}
	for i := range u.rows {
		if u.rows[i].Email == email {
			u.rows[i].EncodedSecret = encodedSecret
			return nil
		}
	}
	return repository.ErrNotFound
}

// Put agrega una fila.
func (u *Users) Put(row repository.User) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.rows = append(u.rows, row)
}

// SetRole cambia el rol de un usuario existente.
func (u *Users) SetRole(username, role string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for i := range u.rows {
		if u.rows[i].Username == username {
			u.rows[i].Role = role
		}
	}
}

// Get devuelve la fila actual de username.
func (u *Users) Get(username string) (repository.User, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, r := range u.rows {
		if r.Username == username {
			return r, true
		}
	}
	return repository.User{}, false
}

// Tokens es un ResetTokenRepository en memoria, append-only.
type Tokens struct {
	mu   sync.Mutex
	rows []repository.ResetToken
	Err  error
}

// NewTokens crea el repositorio vacío.
func NewTokens() *Tokens { return &Tokens{} }

func (t *Tokens) Create(_ context.Context, tok repository.ResetToken) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return t.Err
	}
	t.rows = append(t.rows, tok)
	return nil
}

// Latest replica ORDER BY expiry DESC, id DESC LIMIT 1.
func (t *Tokens) Latest(_ context.Context, email string) (*repository.ResetToken, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return nil, t.Err
	}
	var best *repository.ResetToken
	for i := range t.rows {
		r := t.rows[i]
		if r.Email != email {
			continue
		}
		if best == nil || !r.ExpiresAt.Before(best.ExpiresAt) {
			cp := r
			best = &cp
		}
	}
	if best == nil {
		return nil, repository.ErrNotFound
	}
	return best, nil
}

// Rows devuelve una copia de las filas guardadas.
func (t *Tokens) Rows() []repository.ResetToken {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]repository.ResetToken(nil), t.rows...)
}

// Seed agrega una fila sin pasar por Err.
func (t *Tokens) Seed(tok repository.ResetToken) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, tok)
}

var (
	_ repository.UserRepository       = (*Users)(nil)
	_ repository.ResetTokenRepository = (*Tokens)(nil)
)
