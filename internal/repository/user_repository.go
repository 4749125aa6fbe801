package repository

import (
	"sync"

	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/store"
)

// JSONUserRepository stores users in users.json
type JSONUserRepository struct {
	store *store.Store
	mu    sync.Mutex
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(s *store.Store) UserRepository {
	return &JSONUserRepository{store: s}
}

func (r *JSONUserRepository) load() ([]models.UserRecord, error) {
	var records []models.UserRecord
	if err := r.store.Read(store.FileUsers, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Create creates a new user and assigns its ID
func (r *JSONUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}

	var maxID uint64
	for _, rec := range records {
		if rec.ID > maxID {
			maxID = rec.ID
		}
	}
	user.ID = maxID + 1

	records = append(records, user.ToRecord())
	return r.store.Write(store.FileUsers, records)
}

// FindByID finds a user by ID
func (r *JSONUserRepository) FindByID(id uint64) (*models.User, error) {
	records, err := r.load()
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		if rec.ID == id {
			user := rec.ToUser()
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

// FindByUsername finds a user by username
func (r *JSONUserRepository) FindByUsername(username string) (*models.User, error) {
	records, err := r.load()
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		if rec.Username == username {
			user := rec.ToUser()
			return &user, nil
		}
	}
	return nil, ErrNotFound
}
