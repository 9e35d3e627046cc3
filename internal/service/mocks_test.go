package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/models"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/domain/repository"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/infrastructure/security"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	args := m.Called(ctx, login)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	args := m.Called(ctx, ids)
	if users := args.Get(0); users != nil {
		return users.(map[uuid.UUID]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string, ignoreID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, email, ignoreID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string, ignoreID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, username, ignoreID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) Search(ctx context.Context, query string, limit int) ([]models.User, error) {
	args := m.Called(ctx, query, limit)
	if users := args.Get(0); users != nil {
		return users.([]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRefreshTokenRepository struct {
	mock.Mock
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, session *models.RefreshTokenSession) error {
	return m.Called(ctx, session).Error(0)
}

func (m *mockRefreshTokenRepository) FindByJTI(ctx context.Context, jti uuid.UUID) (*models.RefreshTokenSession, error) {
	args := m.Called(ctx, jti)
	if session := args.Get(0); session != nil {
		return session.(*models.RefreshTokenSession), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRefreshTokenRepository) Rotate(ctx context.Context, oldJTI, newJTI uuid.UUID, issuedAt, validUntil time.Time) error {
	return m.Called(ctx, oldJTI, newJTI, issuedAt, validUntil).Error(0)
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, jti uuid.UUID, at time.Time) error {
	return m.Called(ctx, jti, at).Error(0)
}

func (m *mockRefreshTokenRepository) RevokeOldestBeyondCap(ctx context.Context, userID uuid.UUID, keep int, at time.Time) (int64, error) {
	args := m.Called(ctx, userID, keep, at)
	return args.Get(0).(int64), args.Error(1)
}

type mockShoppingListRepository struct {
	mock.Mock
}

func (m *mockShoppingListRepository) Create(ctx context.Context, list *models.ShoppingList) error {
	return m.Called(ctx, list).Error(0)
}

func (m *mockShoppingListRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.ShoppingList, error) {
	args := m.Called(ctx, id)
	if list := args.Get(0); list != nil {
		return list.(*models.ShoppingList), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockShoppingListRepository) UpdateMeta(ctx context.Context, id uuid.UUID, name string, completeBy *time.Time, updatedAt time.Time) error {
	return m.Called(ctx, id, name, completeBy, updatedAt).Error(0)
}

func (m *mockShoppingListRepository) Close(ctx context.Context, id uuid.UUID, closedBy uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, closedBy, at).Error(0)
}

func (m *mockShoppingListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockShoppingListRepository) List(ctx context.Context, q repository.ListQuery) ([]repository.ListRow, int, int, error) {
	args := m.Called(ctx, q)
	var rows []repository.ListRow
	if v := args.Get(0); v != nil {
		rows = v.([]repository.ListRow)
	}
	return rows, args.Int(1), args.Int(2), args.Error(3)
}

func (m *mockShoppingListRepository) AddItem(ctx context.Context, item *models.ShoppingListItem, updatedAt time.Time) error {
	return m.Called(ctx, item, updatedAt).Error(0)
}

func (m *mockShoppingListRepository) UpdateItem(ctx context.Context, listID, itemID uuid.UUID, name, quantity string, updatedAt time.Time) error {
	return m.Called(ctx, listID, itemID, name, quantity, updatedAt).Error(0)
}

func (m *mockShoppingListRepository) DeleteItem(ctx context.Context, listID, itemID uuid.UUID, updatedAt time.Time) error {
	return m.Called(ctx, listID, itemID, updatedAt).Error(0)
}

func (m *mockShoppingListRepository) SetItemCompletion(ctx context.Context, listID, itemID uuid.UUID, completedBy *uuid.UUID, completedAt *time.Time, updatedAt time.Time) error {
	return m.Called(ctx, listID, itemID, completedBy, completedAt, updatedAt).Error(0)
}

func (m *mockShoppingListRepository) AddMembers(ctx context.Context, listID uuid.UUID, members []models.ShoppingListMember, updatedAt time.Time) error {
	return m.Called(ctx, listID, members, updatedAt).Error(0)
}

func (m *mockShoppingListRepository) UpdateMemberPermission(ctx context.Context, listID, memberID uuid.UUID, permission models.MemberPermission, updatedAt time.Time) error {
	return m.Called(ctx, listID, memberID, permission, updatedAt).Error(0)
}

func (m *mockShoppingListRepository) RemoveMember(ctx context.Context, listID, memberID uuid.UUID, updatedAt time.Time) error {
	return m.Called(ctx, listID, memberID, updatedAt).Error(0)
}

type mockJWTService struct {
	mock.Mock
}

func (m *mockJWTService) Sign(userID uuid.UUID, ttl time.Duration, jti *uuid.UUID) (string, error) {
	args := m.Called(userID, ttl, jti)
	return args.String(0), args.Error(1)
}

func (m *mockJWTService) Verify(token string) (*security.TokenClaims, error) {
	args := m.Called(token)
	if claims := args.Get(0); claims != nil {
		return claims.(*security.TokenClaims), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPasswordHasher struct {
	mock.Mock
}

func (m *mockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordHasher) Verify(password, encodedHash string) (bool, error) {
	args := m.Called(password, encodedHash)
	return args.Bool(0), args.Error(1)
}
