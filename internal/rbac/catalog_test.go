package rbac

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	userDatamodel "github.com/devnazarchuk/depity-hr-sub000/internal/core/datamodel/user"
)

var _ = ginkgo.Describe("Catalog", func() {
	var catalog *Catalog

	ginkgo.BeforeEach(func() {
		catalog = NewCatalog()
	})

	ginkgo.Describe("HasPermission", func() {
		ginkgo.Context("admin grants", func() {
			ginkgo.It("should grant every known token", func() {
				tokens := []string{
					PermUsersView, PermUsersManage, PermUsersDelete,
					PermDocsView, PermDocsUpload, PermDocsManage,
					PermOnboardView, PermOnboardEdit,
					PermMeetingsHost, PermTimeOffAsk, PermTimeOffGrant,
					PermNotesManage, PermReportsView, PermSettings,
				}
				for _, token := range tokens {
					gomega.Expect(catalog.HasPermission(userDatamodel.RoleAdmin, token)).To(gomega.BeTrue(), token)
				}
			})
		})

		ginkgo.Context("hr grants", func() {
			ginkgo.It("should manage users but not delete them or touch settings", func() {
				gomega.Expect(catalog.HasPermission(userDatamodel.RoleHR, PermUsersManage)).To(gomega.BeTrue())
				gomega.Expect(catalog.HasPermission(userDatamodel.RoleHR, PermUsersDelete)).To(gomega.BeFalse())
				gomega.Expect(catalog.HasPermission(userDatamodel.RoleHR, PermSettings)).To(gomega.BeFalse())
			})
		})

		ginkgo.Context("manager grants", func() {
			ginkgo.It("should view users and drive onboarding but not manage users or documents", func() {
				gomega.Expect(catalog.HasPermission(userDatamodel.RoleManager, PermUsersView)).To(gomega.BeTrue())
				gomega.Expect(catalog.HasPermission(userDatamodel.RoleManager, PermOnboardEdit)).To(gomega.BeTrue())
				gomega.Expect(catalog.HasPermission(userDatamodel.RoleManager, PermUsersManage)).To(gomega.BeFalse())
				gomega.Expect(catalog.HasPermission(userDatamodel.RoleManager, PermDocsManage)).To(gomega.BeFalse())
			})
		})

		ginkgo.Context("employee grants", func() {
			ginkgo.It("should upload documents and request time off, nothing administrative", func() {
				gomega.Expect(catalog.HasPermission(userDatamodel.RoleEmployee, PermDocsUpload)).To(gomega.BeTrue())
				gomega.Expect(catalog.HasPermission(userDatamodel.RoleEmployee, PermTimeOffAsk)).To(gomega.BeTrue())
				gomega.Expect(catalog.HasPermission(userDatamodel.RoleEmployee, PermUsersView)).To(gomega.BeFalse())
				gomega.Expect(catalog.HasPermission(userDatamodel.RoleEmployee, PermTimeOffGrant)).To(gomega.BeFalse())
				gomega.Expect(catalog.HasPermission(userDatamodel.RoleEmployee, PermOnboardEdit)).To(gomega.BeFalse())
			})
		})

		ginkgo.Context("unknown inputs", func() {
			ginkgo.It("should deny an unknown role", func() {
				gomega.Expect(catalog.HasPermission(userDatamodel.Role("superuser"), PermUsersView)).To(gomega.BeFalse())
			})

			ginkgo.It("should deny an unknown token for every role", func() {
				roles := []userDatamodel.Role{
					userDatamodel.RoleAdmin, userDatamodel.RoleHR,
					userDatamodel.RoleManager, userDatamodel.RoleEmployee,
				}
				for _, role := range roles {
					gomega.Expect(catalog.HasPermission(role, "documents_teleport")).To(gomega.BeFalse())
				}
			})
		})

		ginkgo.It("should be deterministic across calls", func() {
			for i := 0; i < 10; i++ {
				gomega.Expect(catalog.HasPermission(userDatamodel.RoleManager, PermTimeOffGrant)).To(gomega.BeTrue())
				gomega.Expect(catalog.HasPermission(userDatamodel.RoleEmployee, PermTimeOffGrant)).To(gomega.BeFalse())
			}
		})
	})

	ginkgo.Describe("Grants", func() {
		ginkgo.It("should return a sorted token list", func() {
			grants := catalog.Grants(userDatamodel.RoleEmployee)
			gomega.Expect(grants).ToNot(gomega.BeEmpty())
			gomega.Expect(grants).To(gomega.ContainElement(PermDocsUpload))
			for i := 1; i < len(grants); i++ {
				gomega.Expect(grants[i-1] < grants[i]).To(gomega.BeTrue())
			}
		})

		ginkgo.It("should return nothing for an unknown role", func() {
			gomega.Expect(catalog.Grants(userDatamodel.Role("ghost"))).To(gomega.BeEmpty())
		})
	})
})
