package user

import (
	"errors"

	"jobboard/app/database"
	"jobboard/pkg/utils"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
	ErrMobileExists = errors.New("mobile number already exists")
)

type Service struct {
	store *database.Store
}

func NewService(store *database.Store) *Service {
	return &Service{store: store}
}

func (s *Service) GetByEmail(email string) (*database.User, error) {
	normalized := utils.NormalizeEmail(email)
	for _, u := range s.store.Users() {
		if utils.NormalizeEmail(u.Email) == normalized {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Service) GetByMobile(mobile string) (*database.User, error) {
	for _, u := range s.store.Users() {
		if u.Mobile != "" && u.Mobile == mobile {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

// Create appends a new user record. Uniqueness checks and id assignment
// (max existing id + 1, starting at 1) run inside the locked store update.
func (s *Service) Create(email, passwordHash, role, name, mobile string) (database.User, error) {
	created := database.User{
		Email:        utils.NormalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         role,
		Name:         name,
		Mobile:       mobile,
	}
	if created.Role == "" {
		created.Role = database.RoleUser
	}

	err := s.store.UpdateUsers(func(users []database.User) ([]database.User, error) {
		maxID := 0
		for _, u := range users {
			if utils.NormalizeEmail(u.Email) == created.Email {
				return nil, ErrEmailExists
			}
			if created.Mobile != "" && u.Mobile == created.Mobile {
				return nil, ErrMobileExists
			}
			if u.ID > maxID {
				maxID = u.ID
			}
		}
		created.ID = maxID + 1
		return append(users, created), nil
	})
	if err != nil {
		return database.User{}, err
	}

	return created, nil
}

// EnsureAdmin asserts the bootstrap admin at startup. An existing admin
// record is left untouched; an existing non-admin record is promoted and its
// password hash replaced with the bootstrap password; otherwise a fresh
// admin record is created. Every restart therefore re-asserts the bootstrap
// password unless a real admin already exists.
func (s *Service) EnsureAdmin(email, password string) error {
	existing, err := s.GetByEmail(email)
	if err == nil && existing.Role == database.RoleAdmin {
		return nil
	}

	hash := utils.HashPassword(password)

	if err == nil {
		normalized := utils.NormalizeEmail(email)
		return s.store.UpdateUsers(func(users []database.User) ([]database.User, error) {
			for i := range users {
				if utils.NormalizeEmail(users[i].Email) == normalized {
					users[i].Role = database.RoleAdmin
					users[i].PasswordHash = hash
					break
				}
			}
			return users, nil
		})
	}

	_, err = s.Create(email, hash, database.RoleAdmin, "", "")
	return err
}
