package auth

import (
	"github.com/edustride/crm-backend/internal"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("RoleHierarchy", func() {
	var h RoleHierarchy

	ginkgo.BeforeEach(func() {
		h = DefaultRoleHierarchy()
	})

	ginkgo.It("ranks the default roles in order", func() {
		gomega.Expect(h.Rank("super_admin")).To(gomega.BeNumerically(">", h.Rank("admin")))
		gomega.Expect(h.Rank("admin")).To(gomega.BeNumerically(">", h.Rank("branch_director")))
		gomega.Expect(h.Rank("branch_director")).To(gomega.BeNumerically(">", h.Rank("counselor")))
		gomega.Expect(h.Rank("counselor")).To(gomega.BeNumerically(">", h.Rank("receptionist")))
	})

	ginkgo.It("resolves unknown roles to rank zero with no privilege", func() {
		gomega.Expect(h.Rank("intern")).To(gomega.Equal(0))
		gomega.Expect(h.Known("intern")).To(gomega.BeFalse())
		gomega.Expect(h.HasMinimumRole("intern", "receptionist")).To(gomega.BeFalse())
	})

	ginkgo.It("is asymmetric: admin meets counselor but not the reverse", func() {
		gomega.Expect(h.HasMinimumRole("admin", "counselor")).To(gomega.BeTrue())
		gomega.Expect(h.HasMinimumRole("counselor", "admin")).To(gomega.BeFalse())
	})

	ginkgo.It("accepts an exact match even when the role set is unknown to the hierarchy", func() {
		custom := NewRoleHierarchy(map[string]int{"alpha": 10})
		gomega.Expect(custom.HasMinimumRole("beta", "beta")).To(gomega.BeTrue())
		gomega.Expect(custom.HasMinimumRole("beta", "gamma")).To(gomega.BeFalse())
	})

	ginkgo.It("normalizes role spelling before ranking", func() {
		gomega.Expect(h.Rank("Branch Director")).To(gomega.Equal(h.Rank("branch_director")))
	})

	ginkgo.It("drops non-positive ranks on construction", func() {
		custom := NewRoleHierarchy(map[string]int{"ghost": 0, "real": 5})
		gomega.Expect(custom.Known("ghost")).To(gomega.BeFalse())
		gomega.Expect(custom.IsTopRank("real")).To(gomega.BeTrue())
	})
})

var _ = ginkgo.Describe("Resolver", func() {
	var (
		resolver *Resolver
		boolTrue = true
		boolOff  = false
	)

	ginkgo.BeforeEach(func() {
		resolver = NewResolver(DefaultRoleHierarchy())
	})

	counselorWith := func(perms map[string]ModulePermission) *User {
		return &User{ID: 10, Role: "counselor", Branch: "dhk", Status: StatusActive, Permissions: perms}
	}

	ginkgo.Describe("CanAccessModule", func() {
		ginkgo.It("always allows the top-rank role, even with no permission rows", func() {
			root := &User{ID: 1, Role: "super_admin", Status: StatusActive}
			gomega.Expect(resolver.CanAccessModule(root, "vouchers", OpDelete)).To(gomega.BeTrue())
		})

		ginkgo.It("denies when the module has no permission row", func() {
			u := counselorWith(map[string]ModulePermission{})
			gomega.Expect(resolver.CanAccessModule(u, "vouchers", "")).To(gomega.BeFalse())
		})

		ginkgo.It("allows view-level access for any level except none", func() {
			u := counselorWith(map[string]ModulePermission{
				"leads":    {Module: "leads", AccessLevel: AccessView},
				"vouchers": {Module: "vouchers", AccessLevel: AccessNone},
			})
			gomega.Expect(resolver.CanAccessModule(u, "leads", "")).To(gomega.BeTrue())
			gomega.Expect(resolver.CanAccessModule(u, "vouchers", "")).To(gomega.BeFalse())
		})

		ginkgo.It("lets an explicit operation flag override the coarse level", func() {
			u := counselorWith(map[string]ModulePermission{
				"leads": {Module: "leads", AccessLevel: AccessCRUD, CanEdit: &boolOff},
			})
			gomega.Expect(resolver.CanAccessModule(u, "leads", OpEdit)).To(gomega.BeFalse())
			gomega.Expect(resolver.CanAccessModule(u, "leads", OpAdd)).To(gomega.BeTrue())
		})

		ginkgo.It("grants an operation via explicit flag even at view level", func() {
			u := counselorWith(map[string]ModulePermission{
				"leads": {Module: "leads", AccessLevel: AccessView, CanAdd: &boolTrue},
			})
			gomega.Expect(resolver.CanAccessModule(u, "leads", OpAdd)).To(gomega.BeTrue())
			gomega.Expect(resolver.CanAccessModule(u, "leads", OpDelete)).To(gomega.BeFalse())
		})

		ginkgo.It("requires crud for operations without explicit flags", func() {
			u := counselorWith(map[string]ModulePermission{
				"leads": {Module: "leads", AccessLevel: AccessView},
			})
			gomega.Expect(resolver.CanAccessModule(u, "leads", OpEdit)).To(gomega.BeFalse())
		})

		ginkgo.It("denies a nil user", func() {
			gomega.Expect(resolver.CanAccessModule(nil, "leads", "")).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("BranchScope", func() {
		ginkgo.It("gives the top rank an unrestricted scope by default", func() {
			root := &User{ID: 1, Role: "super_admin", Status: StatusActive}
			scope, err := resolver.BranchScope(root, "")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(scope.IsUnrestricted()).To(gomega.BeTrue())
		})

		ginkgo.It("pins the top rank to a branch it explicitly requests", func() {
			root := &User{ID: 1, Role: "super_admin", Status: StatusActive}
			scope, err := resolver.BranchScope(root, "ctg")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			branch, fixed := scope.Branch()
			gomega.Expect(fixed).To(gomega.BeTrue())
			gomega.Expect(branch).To(gomega.Equal("ctg"))
		})

		ginkgo.It("pins everyone else to their own branch", func() {
			u := &User{ID: 10, Role: "counselor", Branch: "dhk", Status: StatusActive}
			scope, err := resolver.BranchScope(u, "")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			branch, fixed := scope.Branch()
			gomega.Expect(fixed).To(gomega.BeTrue())
			gomega.Expect(branch).To(gomega.Equal("dhk"))
		})

		ginkgo.It("hard-denies a non-top role asking for a different branch", func() {
			u := &User{ID: 10, Role: "branch_director", Branch: "dhk", Status: StatusActive}
			_, err := resolver.BranchScope(u, "ctg")
			gomega.Expect(err).To(gomega.Equal(internal.ErrBranchForbidden))
		})

		ginkgo.It("accepts a non-top role requesting its own branch", func() {
			u := &User{ID: 10, Role: "branch_director", Branch: "dhk", Status: StatusActive}
			scope, err := resolver.BranchScope(u, "dhk")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			branch, _ := scope.Branch()
			gomega.Expect(branch).To(gomega.Equal("dhk"))
		})
	})
})
