package services

import (
	"testing"

	"sirb_backend/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignModerator(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	user := seedUser(t, db, "candidate", models.RoleUser)
	subject, _ := seedChapter(t, db)

	svc := NewModeratorService(db, NewAuthzService(db))

	grant, err := svc.Assign(admin.ID, subject.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, subject.ID, grant.SubjectID)
	assert.Equal(t, user.ID, grant.UserID)

	_, err = svc.Assign(admin.ID, subject.ID, user.ID)
	assert.ErrorIs(t, err, ErrAlreadyModerator)
}

func TestAssignModeratorGuards(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	user := seedUser(t, db, "candidate", models.RoleUser)
	banned := seedUser(t, db, "banned", models.RoleUser)
	require.NoError(t, db.Model(banned).Update("is_banned", true).Error)
	subject, _ := seedChapter(t, db)

	svc := NewModeratorService(db, NewAuthzService(db))

	_, err := svc.Assign(user.ID, subject.ID, user.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Assign(admin.ID, 999, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Assign(admin.ID, subject.ID, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Assign(admin.ID, subject.ID, banned.ID)
	assert.ErrorIs(t, err, ErrUserBanned)
}

func TestRemoveModeratorIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	user := seedUser(t, db, "moderator", models.RoleUser)
	subject, chapter := seedChapter(t, db)

	svc := NewModeratorService(db, NewAuthzService(db))
	grant, err := svc.Assign(admin.ID, subject.ID, user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(admin.ID, grant.ID, subject.ID))
	require.NoError(t, svc.Remove(admin.ID, grant.ID, subject.ID))

	// The grant is really gone: the user can no longer moderate.
	authz := NewAuthzService(db)
	subjectID, err := authz.SubjectIDForChapter(chapter.ID)
	require.NoError(t, err)
	ok, err := authz.CanModerate(user.ID, subjectID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSearchAssignableUsers(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	seedUser(t, db, "Ahmad", models.RoleUser)
	seedUser(t, db, "ahmadine", models.RoleUser)
	banned := seedUser(t, db, "ahmad-banned", models.RoleUser)
	require.NoError(t, db.Model(banned).Update("is_banned", true).Error)

	svc := NewModeratorService(db, NewAuthzService(db))

	// Case-insensitive on name and email, banned users excluded.
	users, err := svc.Search(admin.ID, "AHMAD")
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.False(t, u.IsBanned)
	}

	// Too-short queries return nothing rather than erroring.
	users, err = svc.Search(admin.ID, " a ")
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = svc.Search(banned.ID, "ahmad")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSearchCapsResults(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	for i := 0; i < 15; i++ {
		seedUser(t, db, "student"+string(rune('a'+i)), models.RoleUser)
	}

	svc := NewModeratorService(db, NewAuthzService(db))
	users, err := svc.Search(admin.ID, "student")
	require.NoError(t, err)
	assert.Len(t, users, 10)
}
