package models

import (
	"strconv"
	"time"
)

// Organizational sites. BE is headquarters; PN, DLA and KIN are branches.
const (
	SiteBE  = "BE"
	SitePN  = "PN"
	SiteDLA = "DLA"
	SiteKIN = "KIN"
)

// User roles. Boss and HQ admin see every site; the others are scoped to
// their own site.
const (
	RoleBoss        = "BOSS"
	RoleHQAdmin     = "HQ_ADMIN"
	RoleBranchAgent = "BRANCH_AGENT"
	RoleAccounting  = "ACCOUNTING"
)

// AllSites lists every valid site code.
var AllSites = []string{SiteBE, SitePN, SiteDLA, SiteKIN}

// BranchSites lists the sites that can receive shipments and hold stock.
var BranchSites = []string{SitePN, SiteDLA, SiteKIN}

// AllRoles lists every valid role.
var AllRoles = []string{RoleBoss, RoleHQAdmin, RoleBranchAgent, RoleAccounting}

// IsValidSite checks a site code against the known sites.
func IsValidSite(site string) bool {
	return containsString(AllSites, site)
}

// IsValidBranchSite checks a site code against the branch sites.
func IsValidBranchSite(site string) bool {
	return containsString(BranchSites, site)
}

// IsValidRole checks a role against the known roles.
func IsValidRole(role string) bool {
	return containsString(AllRoles, role)
}

// IsPrivilegedRole reports whether the role sees all sites.
func IsPrivilegedRole(role string) bool {
	return role == RoleBoss || role == RoleHQAdmin
}

// FormatDate formats a time as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseDate parses a YYYY-MM-DD string into a time.Time
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", dateStr)
}

// FormatMoney renders a money amount as a fixed-point string with two
// decimals. Audit snapshots use this so the stored form is stable.
func FormatMoney(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// formatID renders a numeric primary key the way audit records store it.
func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// auditTime renders a timestamp for audit snapshots: RFC 3339 in UTC.
func auditTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// auditDate renders an optional date-only field for audit snapshots.
func auditDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return FormatDate(*t)
}

// auditRef renders an optional foreign key for audit snapshots: the scalar
// id, or null when unset. Snapshots stay flat, one level deep.
func auditRef(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
