package services

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/wellnest-app/wellnest-backend/internal/repos"
	"github.com/wellnest-app/wellnest-backend/internal/types"
)

func newSpaceFixture(t *testing.T) (SpaceService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	svc := NewSpaceService(
		db,
		log,
		repos.NewSpaceRepo(db, log),
		repos.NewSpaceMemberRepo(db, log),
		repos.NewSpaceMessageRepo(db, log),
		nil,
	)
	return svc, db
}

func TestCreateSpaceSeedsOwnerMembership(t *testing.T) {
	svc, db := newSpaceFixture(t)
	owner := seedUser(t, db)

	space, err := svc.CreateSpace(authedCtx(owner.ID), "Morning people", "Early risers check in here")
	if err != nil {
		t.Fatalf("CreateSpace: %v", err)
	}
	if space.MemberCount != 1 {
		t.Fatalf("member count = %d, want 1", space.MemberCount)
	}

	var member types.SpaceMember
	if err := db.Where("space_id = ? AND user_id = ?", space.ID, owner.ID).First(&member).Error; err != nil {
		t.Fatalf("owner membership missing: %v", err)
	}
	if member.Role != types.SpaceRoleOwner {
		t.Fatalf("owner role = %q, want %q", member.Role, types.SpaceRoleOwner)
	}
}

func TestJoinSpaceIsIdempotent(t *testing.T) {
	svc, db := newSpaceFixture(t)
	owner := seedUser(t, db)
	joiner := seedUser(t, db)

	space, err := svc.CreateSpace(authedCtx(owner.ID), "Hydration club", "")
	if err != nil {
		t.Fatalf("CreateSpace: %v", err)
	}

	first, err := svc.JoinSpace(authedCtx(joiner.ID), space.ID)
	if err != nil {
		t.Fatalf("first join: %v", err)
	}
	second, err := svc.JoinSpace(authedCtx(joiner.ID), space.ID)
	if err != nil {
		t.Fatalf("repeat join: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("repeat join created a second membership")
	}

	var reloaded types.Space
	if err := db.First(&reloaded, "id = ?", space.ID).Error; err != nil {
		t.Fatalf("reload space: %v", err)
	}
	if reloaded.MemberCount != 2 {
		t.Fatalf("member count = %d, want 2", reloaded.MemberCount)
	}
}

func TestLeaveSpace(t *testing.T) {
	svc, db := newSpaceFixture(t)
	owner := seedUser(t, db)
	joiner := seedUser(t, db)

	space, err := svc.CreateSpace(authedCtx(owner.ID), "Stretch squad", "")
	if err != nil {
		t.Fatalf("CreateSpace: %v", err)
	}
	if _, err := svc.JoinSpace(authedCtx(joiner.ID), space.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	if err := svc.LeaveSpace(authedCtx(joiner.ID), space.ID); err != nil {
		t.Fatalf("leave: %v", err)
	}
	// Leaving when you were never (or no longer) a member is a no-op.
	if err := svc.LeaveSpace(authedCtx(joiner.ID), space.ID); err != nil {
		t.Fatalf("repeat leave: %v", err)
	}
	if err := svc.LeaveSpace(authedCtx(owner.ID), space.ID); err == nil {
		t.Fatalf("owner leaving their own space should fail")
	}

	var reloaded types.Space
	if err := db.First(&reloaded, "id = ?", space.ID).Error; err != nil {
		t.Fatalf("reload space: %v", err)
	}
	if reloaded.MemberCount != 1 {
		t.Fatalf("member count = %d, want 1", reloaded.MemberCount)
	}
}

func TestMessagingRequiresMembership(t *testing.T) {
	svc, db := newSpaceFixture(t)
	owner := seedUser(t, db)
	stranger := seedUser(t, db)

	space, err := svc.CreateSpace(authedCtx(owner.ID), "Quiet corner", "")
	if err != nil {
		t.Fatalf("CreateSpace: %v", err)
	}

	if _, err := svc.PostMessage(authedCtx(stranger.ID), space.ID, "hello"); !errors.Is(err, ErrNotSpaceMember) {
		t.Fatalf("non-member post: got %v, want ErrNotSpaceMember", err)
	}
	if _, err := svc.ListMessages(authedCtx(stranger.ID), space.ID, 50, 0); !errors.Is(err, ErrNotSpaceMember) {
		t.Fatalf("non-member list: got %v, want ErrNotSpaceMember", err)
	}

	msg, err := svc.PostMessage(authedCtx(owner.ID), space.ID, "  welcome in  ")
	if err != nil {
		t.Fatalf("member post: %v", err)
	}
	if msg.Body != "welcome in" {
		t.Fatalf("body = %q, want trimmed text", msg.Body)
	}

	messages, err := svc.ListMessages(authedCtx(owner.ID), space.ID, 50, 0)
	if err != nil {
		t.Fatalf("member list: %v", err)
	}
	if len(messages) != 1 || messages[0].ID != msg.ID {
		t.Fatalf("unexpected message list: %+v", messages)
	}
}

func TestJoinUnknownSpace(t *testing.T) {
	svc, db := newSpaceFixture(t)
	user := seedUser(t, db)

	other := seedUser(t, db)
	if _, err := svc.CreateSpace(authedCtx(other.ID), "Somewhere else", ""); err != nil {
		t.Fatalf("CreateSpace: %v", err)
	}

	if _, err := svc.JoinSpace(authedCtx(user.ID), user.ID); !errors.Is(err, ErrSpaceNotFound) {
		t.Fatalf("got %v, want ErrSpaceNotFound", err)
	}
}
