package rbac

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	documentDatamodel "github.com/devnazarchuk/depity-hr-sub000/internal/core/datamodel/document"
	onboardingDatamodel "github.com/devnazarchuk/depity-hr-sub000/internal/core/datamodel/onboarding"
	userDatamodel "github.com/devnazarchuk/depity-hr-sub000/internal/core/datamodel/user"
)

var _ = ginkgo.Describe("Resolver", func() {
	var (
		resolver *Resolver

		admin    userDatamodel.User
		hr       userDatamodel.User
		manager  userDatamodel.User
		engineer userDatamodel.User
		marketer userDatamodel.User
		everyone []userDatamodel.User

		docs  []documentDatamodel.Document
		tasks []onboardingDatamodel.Task
	)

	ginkgo.BeforeEach(func() {
		resolver = NewResolver()

		admin = userDatamodel.User{ID: "u-admin", Name: "Ada Admin", Role: userDatamodel.RoleAdmin, Department: "Operations"}
		hr = userDatamodel.User{ID: "u-hr", Name: "Harper HR", Role: userDatamodel.RoleHR, Department: "People"}
		manager = userDatamodel.User{ID: "u-mgr", Name: "Marcus Webb", Role: userDatamodel.RoleManager, Department: "Engineering"}
		engineer = userDatamodel.User{ID: "u-eng", Name: "Tom Okafor", Role: userDatamodel.RoleEmployee, Department: "Engineering"}
		marketer = userDatamodel.User{ID: "u-mkt", Name: "Lukas Meyer", Role: userDatamodel.RoleEmployee, Department: "Marketing"}
		everyone = []userDatamodel.User{admin, hr, manager, engineer, marketer}

		docs = []documentDatamodel.Document{
			{ID: "d-mgr", Name: "Roadmap", UploadedBy: "Marcus Webb"},
			{ID: "d-eng", Name: "Report", UploadedBy: "Tom Okafor"},
			{ID: "d-mkt", Name: "Launch Plan", UploadedBy: "Lukas Meyer"},
			{ID: "d-shared", Name: "Handbook", UploadedBy: documentDatamodel.AssignedBucket},
		}

		tasks = []onboardingDatamodel.Task{
			{ID: "t-eng", UserID: "u-eng", Title: "Set up laptop"},
			{ID: "t-mkt", UserID: "u-mkt", Title: "Brand training"},
		}
	})

	ginkgo.Describe("VisibleUsers", func() {
		ginkgo.It("should give admin and hr the full directory", func() {
			gomega.Expect(resolver.VisibleUsers(&admin, everyone)).To(gomega.HaveLen(len(everyone)))
			gomega.Expect(resolver.VisibleUsers(&hr, everyone)).To(gomega.HaveLen(len(everyone)))
		})

		ginkgo.It("should restrict a manager to their department", func() {
			visible := resolver.VisibleUsers(&manager, everyone)
			gomega.Expect(visible).To(gomega.HaveLen(2))
			for _, u := range visible {
				gomega.Expect(u.Department).To(gomega.Equal("Engineering"))
			}
		})

		ginkgo.It("should restrict an employee to exactly themself", func() {
			visible := resolver.VisibleUsers(&engineer, everyone)
			gomega.Expect(visible).To(gomega.HaveLen(1))
			gomega.Expect(visible[0].ID).To(gomega.Equal(engineer.ID))
		})

		ginkgo.It("should return an empty set for a nil actor", func() {
			gomega.Expect(resolver.VisibleUsers(nil, everyone)).To(gomega.BeEmpty())
		})

		ginkgo.It("should return an empty set for an unknown role", func() {
			ghost := userDatamodel.User{ID: "u-ghost", Role: userDatamodel.Role("superuser")}
			gomega.Expect(resolver.VisibleUsers(&ghost, everyone)).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("VisibleDocuments", func() {
		ginkgo.It("should give hr everything", func() {
			gomega.Expect(resolver.VisibleDocuments(&hr, everyone, docs)).To(gomega.HaveLen(len(docs)))
		})

		ginkgo.It("should give a manager department uploads and their own", func() {
			visible := resolver.VisibleDocuments(&manager, everyone, docs)
			ids := idsOfDocs(visible)
			gomega.Expect(ids).To(gomega.ConsistOf("d-mgr", "d-eng"))
		})

		ginkgo.It("should give an employee own uploads plus the assigned bucket", func() {
			visible := resolver.VisibleDocuments(&engineer, everyone, docs)
			ids := idsOfDocs(visible)
			gomega.Expect(ids).To(gomega.ConsistOf("d-eng", "d-shared"))
		})

		ginkgo.It("should fail closed for a nil actor", func() {
			gomega.Expect(resolver.VisibleDocuments(nil, everyone, docs)).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("VisibleOnboarding", func() {
		ginkgo.It("should never show a Marketing task to an Engineering manager", func() {
			// Given the full unfiltered collection
			visible := resolver.VisibleOnboarding(&manager, everyone, tasks)

			// Then only the Engineering task remains
			gomega.Expect(visible).To(gomega.HaveLen(1))
			gomega.Expect(visible[0].ID).To(gomega.Equal("t-eng"))
		})

		ginkgo.It("should give an employee only their own task", func() {
			visible := resolver.VisibleOnboarding(&marketer, everyone, tasks)
			gomega.Expect(visible).To(gomega.HaveLen(1))
			gomega.Expect(visible[0].UserID).To(gomega.Equal(marketer.ID))
		})

		ginkgo.It("should give admin every task", func() {
			gomega.Expect(resolver.VisibleOnboarding(&admin, everyone, tasks)).To(gomega.HaveLen(len(tasks)))
		})
	})

	ginkgo.Describe("point queries", func() {
		ginkgo.It("should agree with VisibleUsers for every actor and target", func() {
			actors := []*userDatamodel.User{&admin, &hr, &manager, &engineer, &marketer}
			for _, actor := range actors {
				visible := map[string]bool{}
				for _, u := range resolver.VisibleUsers(actor, everyone) {
					visible[u.ID] = true
				}
				for i := range everyone {
					gomega.Expect(resolver.CanEditUser(actor, &everyone[i])).To(
						gomega.Equal(visible[everyone[i].ID]),
						"%s -> %s", actor.ID, everyone[i].ID)
				}
			}
		})

		ginkgo.It("should agree with VisibleDocuments for every actor and document", func() {
			actors := []*userDatamodel.User{&admin, &hr, &manager, &engineer, &marketer}
			for _, actor := range actors {
				visible := map[string]bool{}
				for _, d := range resolver.VisibleDocuments(actor, everyone, docs) {
					visible[d.ID] = true
				}
				for i := range docs {
					gomega.Expect(resolver.CanAccessDocument(actor, everyone, &docs[i])).To(
						gomega.Equal(visible[docs[i].ID]),
						"%s -> %s", actor.ID, docs[i].ID)
				}
			}
		})

		ginkgo.It("should agree with VisibleOnboarding for every actor and task", func() {
			actors := []*userDatamodel.User{&admin, &hr, &manager, &engineer, &marketer}
			for _, actor := range actors {
				visible := map[string]bool{}
				for _, t := range resolver.VisibleOnboarding(actor, everyone, tasks) {
					visible[t.ID] = true
				}
				for i := range tasks {
					gomega.Expect(resolver.CanAccessOnboarding(actor, everyone, &tasks[i])).To(
						gomega.Equal(visible[tasks[i].ID]),
						"%s -> %s", actor.ID, tasks[i].ID)
				}
			}
		})

		ginkgo.It("should deny everything for a nil actor", func() {
			gomega.Expect(resolver.CanEditUser(nil, &engineer)).To(gomega.BeFalse())
			gomega.Expect(resolver.CanAccessDocument(nil, everyone, &docs[0])).To(gomega.BeFalse())
			gomega.Expect(resolver.CanAccessOnboarding(nil, everyone, &tasks[0])).To(gomega.BeFalse())
		})
	})

	ginkgo.It("should pick up a department change on the next call", func() {
		before := resolver.VisibleOnboarding(&manager, everyone, tasks)
		gomega.Expect(idsOfTasks(before)).To(gomega.ConsistOf("t-eng"))

		// move the manager to Marketing; nothing is cached
		manager.Department = "Marketing"
		everyone[2].Department = "Marketing"

		after := resolver.VisibleOnboarding(&manager, everyone, tasks)
		gomega.Expect(idsOfTasks(after)).To(gomega.ConsistOf("t-mkt"))
	})
})

func idsOfDocs(docs []documentDatamodel.Document) []string {
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids
}

func idsOfTasks(tasks []onboardingDatamodel.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}
