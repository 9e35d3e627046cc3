package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCheckListAccess(t *testing.T) {
	author := &User{ID: uuid.New(), Role: RoleUser}
	admin := &User{ID: uuid.New(), Role: RoleAdmin}
	reader := &User{ID: uuid.New(), Role: RoleUser}
	writer := &User{ID: uuid.New(), Role: RoleUser}
	stranger := &User{ID: uuid.New(), Role: RoleUser}

	list := &ShoppingList{
		ID:       uuid.New(),
		AuthorID: author.ID,
		Members: []ShoppingListMember{
			{ID: uuid.New(), UserID: reader.ID, Permission: PermissionRead},
			{ID: uuid.New(), UserID: writer.ID, Permission: PermissionWrite},
		},
	}

	tests := []struct {
		name string
		user *User
		want ListAccess
	}{
		{"author gets full access", author, AccessReadWrite},
		{"admin gets full access without membership", admin, AccessReadWrite},
		{"member with read permission", reader, AccessRead},
		{"member with write permission", writer, AccessReadAddItems},
		{"unrelated user gets nothing", stranger, AccessNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckListAccess(list, tt.user))
		})
	}
}

func TestCheckListAccessAdminAuthorPrecedence(t *testing.T) {
	// An admin who is also listed as a read member still gets full access;
	// the role outranks the membership.
	admin := &User{ID: uuid.New(), Role: RoleAdmin}
	list := &ShoppingList{
		AuthorID: uuid.New(),
		Members:  []ShoppingListMember{{ID: uuid.New(), UserID: admin.ID, Permission: PermissionRead}},
	}

	assert.Equal(t, AccessReadWrite, CheckListAccess(list, admin))
}

func TestCanAccessItems(t *testing.T) {
	assert.False(t, AccessNone.CanAccessItems())
	assert.False(t, AccessRead.CanAccessItems())
	assert.True(t, AccessReadWrite.CanAccessItems())
	assert.True(t, AccessReadAddItems.CanAccessItems())
}
