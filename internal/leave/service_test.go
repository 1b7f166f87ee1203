package leave

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/edustride/crm-backend/internal"
	"github.com/edustride/crm-backend/internal/auth"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestLeave(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Leave Module Suite")
}

type mockLeaveRepository struct {
	leaves map[int64]*Leave
	nextID int64
}

func newMockLeaveRepository() *mockLeaveRepository {
	return &mockLeaveRepository{leaves: map[int64]*Leave{}, nextID: 1}
}

func (m *mockLeaveRepository) inScope(l *Leave, scope auth.BranchScope) bool {
	if scope.IsUnrestricted() {
		return true
	}
	branch, _ := scope.Branch()
	return l.Branch == branch
}

func (m *mockLeaveRepository) Create(l *Leave) error {
	l.ID = m.nextID
	m.nextID++
	copied := *l
	m.leaves[l.ID] = &copied
	return nil
}

func (m *mockLeaveRepository) GetByID(id int64, scope auth.BranchScope) (*Leave, error) {
	l, ok := m.leaves[id]
	if !ok || !m.inScope(l, scope) {
		return nil, ErrLeaveNotFound
	}
	copied := *l
	return &copied, nil
}

func (m *mockLeaveRepository) List(scope auth.BranchScope, userID int64, status string, limit, offset int) ([]*Leave, error) {
	var out []*Leave
	for _, l := range m.leaves {
		if !m.inScope(l, scope) {
			continue
		}
		if userID != 0 && l.UserID != userID {
			continue
		}
		if status != "" && l.Status != status {
			continue
		}
		copied := *l
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockLeaveRepository) SetStatus(id int64, status string, decidedBy int64, scope auth.BranchScope) error {
	l, ok := m.leaves[id]
	if !ok || !m.inScope(l, scope) {
		return ErrLeaveNotFound
	}
	l.Status = status
	l.DecidedBy = &decidedBy
	return nil
}

func (m *mockLeaveRepository) Delete(id int64, scope auth.BranchScope) error {
	l, ok := m.leaves[id]
	if !ok || !m.inScope(l, scope) {
		return ErrLeaveNotFound
	}
	delete(m.leaves, id)
	return nil
}

var _ = ginkgo.Describe("LeaveService", func() {
	var (
		service   *Service
		repo      *mockLeaveRepository
		counselor *auth.User
		director  *auth.User
		root      *auth.User
	)

	ginkgo.BeforeEach(func() {
		repo = newMockLeaveRepository()
		resolver := auth.NewResolver(auth.DefaultRoleHierarchy())
		service = NewService(repo, resolver, slog.New(slog.NewTextHandler(io.Discard, nil)))

		counselor = &auth.User{ID: 10, Role: "counselor", Branch: "dhk", Status: auth.StatusActive}
		director = &auth.User{ID: 20, Role: "branch_director", Branch: "dhk", Status: auth.StatusActive}
		root = &auth.User{ID: 1, Role: "super_admin", Status: auth.StatusActive}
	})

	apply := func(actor *auth.User) *Leave {
		l, err := service.Apply(actor, ApplyLeaveDTO{
			Type:      TypeCasual,
			StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
			Reason:    "family event",
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return l
	}

	ginkgo.Describe("Apply", func() {
		ginkgo.It("pins the request to the requester's own branch", func() {
			l := apply(counselor)
			gomega.Expect(l.Branch).To(gomega.Equal("dhk"))
			gomega.Expect(l.UserID).To(gomega.Equal(counselor.ID))
			gomega.Expect(l.Status).To(gomega.Equal(StatusPending))
		})

		ginkgo.It("rejects a requester without a branch", func() {
			_, err := service.Apply(root, ApplyLeaveDTO{
				Type:      TypeSick,
				StartDate: time.Now(),
				EndDate:   time.Now().Add(24 * time.Hour),
				Reason:    "flu",
			})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("validates type, dates, and reason", func() {
			_, err := service.Apply(counselor, ApplyLeaveDTO{Type: "sabbatical", StartDate: time.Now(), EndDate: time.Now(), Reason: "x"})
			gomega.Expect(err).To(gomega.HaveOccurred())

			_, err = service.Apply(counselor, ApplyLeaveDTO{Type: TypeAnnual, Reason: "x"})
			gomega.Expect(err).To(gomega.HaveOccurred())

			_, err = service.Apply(counselor, ApplyLeaveDTO{
				Type:      TypeAnnual,
				StartDate: time.Now().Add(48 * time.Hour),
				EndDate:   time.Now(),
				Reason:    "x",
			})
			gomega.Expect(err).To(gomega.HaveOccurred())

			_, err = service.Apply(counselor, ApplyLeaveDTO{Type: TypeAnnual, StartDate: time.Now(), EndDate: time.Now(), Reason: "  "})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Approve and Reject", func() {
		var pending *Leave

		ginkgo.BeforeEach(func() {
			pending = apply(counselor)
		})

		ginkgo.It("lets a director approve a counselor's request", func() {
			approved, err := service.Approve(director, pending.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(approved.Status).To(gomega.Equal(StatusApproved))
			gomega.Expect(*approved.DecidedBy).To(gomega.Equal(director.ID))
		})

		ginkgo.It("denies deciding below the director rank", func() {
			_, err := service.Approve(counselor, pending.ID)
			gomega.Expect(err).To(gomega.Equal(internal.ErrRoleForbidden))
		})

		ginkgo.It("refuses a director deciding their own request", func() {
			own := apply(director)
			_, err := service.Approve(director, own.ID)
			gomega.Expect(err).To(gomega.Equal(ErrOwnLeave))

			_, err = service.Reject(director, own.ID)
			gomega.Expect(err).To(gomega.Equal(ErrOwnLeave))
		})

		ginkgo.It("lets the top rank decide another branch's request", func() {
			rejected, err := service.Reject(root, pending.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(rejected.Status).To(gomega.Equal(StatusRejected))
		})

		ginkgo.It("refuses to decide a request twice", func() {
			_, err := service.Approve(director, pending.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Reject(director, pending.ID)
			gomega.Expect(err).To(gomega.Equal(ErrLeaveNotPending))
		})
	})

	ginkgo.Describe("Cancel", func() {
		ginkgo.It("lets a requester withdraw their own pending request", func() {
			l := apply(counselor)
			gomega.Expect(service.Cancel(counselor, l.ID)).To(gomega.Succeed())

			_, err := service.Get(counselor, l.ID)
			gomega.Expect(err).To(gomega.Equal(ErrLeaveNotFound))
		})

		ginkgo.It("refuses another non-approver withdrawing it", func() {
			l := apply(counselor)
			other := &auth.User{ID: 11, Role: "receptionist", Branch: "dhk", Status: auth.StatusActive}
			gomega.Expect(service.Cancel(other, l.ID)).To(gomega.Equal(internal.ErrRoleForbidden))
		})

		ginkgo.It("refuses to cancel a decided request", func() {
			l := apply(counselor)
			_, err := service.Approve(director, l.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.Cancel(counselor, l.ID)).To(gomega.Equal(ErrLeaveNotPending))
		})
	})
})
