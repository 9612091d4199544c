package models

// Capability names a single permitted operation. Routes are gated on
// capabilities rather than raw roles so the role to permission mapping lives
// in one table.
type Capability string

const (
	CapDictionariesWrite Capability = "dictionaries:write"
	CapDictionariesRead  Capability = "dictionaries:read"
	CapTemplatesRead     Capability = "templates:read"
	CapTemplatesWrite    Capability = "templates:write"
	CapSchedulesRead     Capability = "schedules:read"
	CapSchedulesWrite    Capability = "schedules:write"
	CapSchedulesFill     Capability = "schedules:fill"
	CapSchedulesExport   Capability = "schedules:export"
	CapMarksRead         Capability = "marks:read"
	CapMarksWrite        Capability = "marks:write"
	CapProfilesManage    Capability = "profiles:manage"
)

// RoleCapabilities is the static role to capability table. The two roles
// carry disjoint write permissions; students only ever read their own data.
var RoleCapabilities = map[UserRole][]Capability{
	RoleTutor: {
		CapDictionariesRead,
		CapDictionariesWrite,
		CapTemplatesRead,
		CapTemplatesWrite,
		CapSchedulesRead,
		CapSchedulesWrite,
		CapSchedulesFill,
		CapSchedulesExport,
		CapMarksRead,
		CapMarksWrite,
		CapProfilesManage,
	},
	RoleStudent: {
		CapSchedulesRead,
	},
}

// HasCapability reports whether the role is granted the capability.
func HasCapability(role UserRole, cap Capability) bool {
	for _, granted := range RoleCapabilities[role] {
		if granted == cap {
			return true
		}
	}
	return false
}
