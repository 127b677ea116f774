package authz

const (
	RoleAdmin     = "catalog-admin"
	RoleViewer    = "catalog-viewer"
	RoleAnonymous = "anonymous"
)

const (
	ActionRead  = "read"
	ActionAdmin = "admin"
)

const DomainGlobal = "global"

const (
	ObjectMenuMenus             = "menu.menus"
	ObjectPersonnelAfiliados    = "personnel.afiliados"
	ObjectPersonnelOrgHistory   = "personnel.org-history"
	ObjectOrgStructureOrganica0 = "orgstructure.organica0"
	ObjectJobCatalogCategories  = "jobcatalog.categories"
	ObjectGeoPostalCodes        = "geo.postal-codes"
	ObjectGeoColonies           = "geo.colonies"
	ObjectNoticeNotices         = "notice.notices"
	ObjectLogAdminFiles         = "logadmin.files"
)

// Objects lists every object a route can require.
var Objects = []string{
	ObjectMenuMenus,
	ObjectPersonnelAfiliados,
	ObjectPersonnelOrgHistory,
	ObjectOrgStructureOrganica0,
	ObjectJobCatalogCategories,
	ObjectGeoPostalCodes,
	ObjectGeoColonies,
	ObjectNoticeNotices,
	ObjectLogAdminFiles,
}
