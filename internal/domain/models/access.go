package models

// ListAccess is the access tier a user holds on a specific shopping list.
// The set is closed; switch over it without a default case so that a new
// tier fails loudly at every call site.
type ListAccess int

const (
	// AccessNone grants nothing, not even reading the list.
	AccessNone ListAccess = iota
	// AccessRead grants viewing the list and toggling item completion.
	AccessRead
	// AccessReadWrite grants full control: metadata, items, members,
	// closing and deletion. Held by the author and admins.
	AccessReadWrite
	// AccessReadAddItems grants viewing plus adding and editing items.
	// It does not grant metadata or member management.
	AccessReadAddItems
)

func (a ListAccess) String() string {
	switch a {
	case AccessNone:
		return "none"
	case AccessRead:
		return "read"
	case AccessReadWrite:
		return "read_write"
	case AccessReadAddItems:
		return "read_add_items"
	}
	return "unknown"
}

// CheckListAccess computes the access tier a user holds on a list. It is a
// pure classification of (list author, list members, user role, user id);
// callers re-derive it on every operation instead of caching it, since the
// membership can change between calls.
func CheckListAccess(list *ShoppingList, user *User) ListAccess {
	if user.IsAdmin() || user.ID == list.AuthorID {
		return AccessReadWrite
	}

	member := list.MemberByUser(user.ID)
	if member == nil {
		return AccessNone
	}

	if member.Permission == PermissionRead {
		return AccessRead
	}
	return AccessReadAddItems
}

// CanAccessItems reports whether the tier permits adding or editing items.
func (a ListAccess) CanAccessItems() bool {
	return a == AccessReadWrite || a == AccessReadAddItems
}
