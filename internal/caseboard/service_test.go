package caseboard

import (
	"io"
	"log/slog"
	"testing"

	"github.com/edustride/crm-backend/internal/auth"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestCaseboard(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Caseboard Module Suite")
}

type mockCaseRepository struct {
	cases  map[int64]*Case
	nextID int64
}

func newMockCaseRepository() *mockCaseRepository {
	return &mockCaseRepository{cases: map[int64]*Case{}, nextID: 1}
}

func (m *mockCaseRepository) inScope(c *Case, scope auth.BranchScope) bool {
	if scope.IsUnrestricted() {
		return true
	}
	branch, _ := scope.Branch()
	return c.Branch == branch
}

func (m *mockCaseRepository) Create(c *Case) error {
	c.ID = m.nextID
	m.nextID++
	copied := *c
	m.cases[c.ID] = &copied
	return nil
}

func (m *mockCaseRepository) GetByID(id int64, scope auth.BranchScope) (*Case, error) {
	c, ok := m.cases[id]
	if !ok || !m.inScope(c, scope) {
		return nil, ErrCaseNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *mockCaseRepository) List(scope auth.BranchScope, column string, limit, offset int) ([]*Case, error) {
	var out []*Case
	for _, c := range m.cases {
		if !m.inScope(c, scope) {
			continue
		}
		if column != "" && c.Column != column {
			continue
		}
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockCaseRepository) Update(c *Case, scope auth.BranchScope) error {
	existing, ok := m.cases[c.ID]
	if !ok || !m.inScope(existing, scope) {
		return ErrCaseNotFound
	}
	copied := *c
	m.cases[c.ID] = &copied
	return nil
}

func (m *mockCaseRepository) Move(id int64, column string, position int, scope auth.BranchScope) error {
	existing, ok := m.cases[id]
	if !ok || !m.inScope(existing, scope) {
		return ErrCaseNotFound
	}
	existing.Column = column
	existing.Position = position
	return nil
}

func (m *mockCaseRepository) Delete(id int64, scope auth.BranchScope) error {
	existing, ok := m.cases[id]
	if !ok || !m.inScope(existing, scope) {
		return ErrCaseNotFound
	}
	delete(m.cases, id)
	return nil
}

var _ = ginkgo.Describe("CaseService", func() {
	var (
		service   *Service
		repo      *mockCaseRepository
		counselor *auth.User
		root      *auth.User
	)

	ginkgo.BeforeEach(func() {
		repo = newMockCaseRepository()
		resolver := auth.NewResolver(auth.DefaultRoleHierarchy())
		service = NewService(repo, resolver, slog.New(slog.NewTextHandler(io.Discard, nil)))

		counselor = &auth.User{ID: 10, Role: "counselor", Branch: "dhk", Status: auth.StatusActive}
		root = &auth.User{ID: 1, Role: "super_admin", Status: auth.StatusActive}
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("defaults new cards into the todo column", func() {
			c, err := service.Create(counselor, CreateCaseDTO{Title: "Verify transcripts"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(c.Column).To(gomega.Equal(ColumnTodo))
			gomega.Expect(c.Branch).To(gomega.Equal("dhk"))
		})

		ginkgo.It("rejects an unknown column", func() {
			_, err := service.Create(counselor, CreateCaseDTO{Title: "x", Column: "parked"})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("requires a title", func() {
			_, err := service.Create(counselor, CreateCaseDTO{Title: "   "})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Move", func() {
		var card *Case

		ginkgo.BeforeEach(func() {
			var err error
			card, err = service.Create(counselor, CreateCaseDTO{Title: "Follow up"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("moves the card to the requested column and position", func() {
			moved, err := service.Move(counselor, card.ID, MoveCaseDTO{Column: ColumnInProgress, Position: 2})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(moved.Column).To(gomega.Equal(ColumnInProgress))
			gomega.Expect(moved.Position).To(gomega.Equal(2))
		})

		ginkgo.It("lets the last concurrent move win", func() {
			_, err := service.Move(counselor, card.ID, MoveCaseDTO{Column: ColumnReview, Position: 0})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			moved, err := service.Move(counselor, card.ID, MoveCaseDTO{Column: ColumnDone, Position: 5})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(moved.Column).To(gomega.Equal(ColumnDone))
			gomega.Expect(moved.Position).To(gomega.Equal(5))
		})

		ginkgo.It("rejects unknown columns and negative positions", func() {
			_, err := service.Move(counselor, card.ID, MoveCaseDTO{Column: "limbo"})
			gomega.Expect(err).To(gomega.HaveOccurred())

			_, err = service.Move(counselor, card.ID, MoveCaseDTO{Column: ColumnDone, Position: -1})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("hides cross-branch cards behind not-found", func() {
			remote, err := service.Create(root, CreateCaseDTO{Title: "Remote", Branch: "ctg"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Move(counselor, remote.ID, MoveCaseDTO{Column: ColumnDone})
			gomega.Expect(err).To(gomega.Equal(ErrCaseNotFound))
		})
	})

	ginkgo.Describe("List", func() {
		ginkgo.BeforeEach(func() {
			_, err := service.Create(counselor, CreateCaseDTO{Title: "a"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = service.Create(counselor, CreateCaseDTO{Title: "b", Column: ColumnReview})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = service.Create(root, CreateCaseDTO{Title: "c", Branch: "ctg"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("filters by column within the caller's branch", func() {
			cases, err := service.List(counselor, "", ColumnReview, 0, 0)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(cases).To(gomega.HaveLen(1))
			gomega.Expect(cases[0].Title).To(gomega.Equal("b"))
		})

		ginkgo.It("rejects a column filter that is not a board column", func() {
			_, err := service.List(counselor, "", "archive", 0, 0)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("shows the whole board to the top rank", func() {
			cases, err := service.List(root, "", "", 0, 0)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(cases).To(gomega.HaveLen(3))
		})
	})
})
