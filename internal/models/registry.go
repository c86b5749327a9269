package models

import "sort"

// Menu paths guarding each group of master screens.
const (
	MenuPathMaster      = "/dashboard/master"
	MenuPathAdmission   = "/dashboard/admission"
	MenuPathCourse      = "/dashboard/course"
	MenuPathEmployee    = "/dashboard/employee"
	MenuPathCommittee   = "/dashboard/committee"
	MenuPathEvent       = "/dashboard/event"
	MenuPathPermissions = "/dashboard/administration/permissions"
)

func textField(key string, required bool) FieldSpec {
	return FieldSpec{Key: key, Label: HumanizeLabel(key), Kind: FieldText, Required: required}
}

func checkboxField(key string) FieldSpec {
	return FieldSpec{Key: key, Label: HumanizeLabel(key), Kind: FieldCheckbox}
}

func dateField(key string, required bool) FieldSpec {
	return FieldSpec{Key: key, Label: HumanizeLabel(key), Kind: FieldDate, Required: required}
}

func timeField(key string) FieldSpec {
	return FieldSpec{Key: key, Label: HumanizeLabel(key), Kind: FieldTime}
}

func refField(key, entity string) FieldSpec {
	return FieldSpec{Key: key, Label: HumanizeLabel(key), Kind: FieldReference, Required: true, RefEntity: entity}
}

var entityRegistry = buildRegistry()

func buildRegistry() map[string]Entity {
	entities := []Entity{
		{
			Tag: "caste", Table: "caste_master", DisplayName: "Caste",
			MenuPath:  MenuPathAdmission,
			IDColumns: []string{"caste_id", "record_id", "id"}, NameColumns: []string{"name", "caste_name"},
			Fields: []FieldSpec{textField("name", true), checkboxField("is_active")},
		},
		{
			Tag: "quota", Table: "quota_master", DisplayName: "Quota",
			MenuPath:  MenuPathAdmission,
			IDColumns: []string{"quota_id", "record_id", "id"}, NameColumns: []string{"name", "quota_name"},
			Fields: []FieldSpec{textField("name", true), checkboxField("is_active")},
		},
		{
			Tag: "admission_quota", Table: "admission_quota_master", DisplayName: "Admission Quota",
			MenuPath:  MenuPathAdmission,
			IDColumns: []string{"admission_quota_id", "record_id", "id"}, NameColumns: []string{"name"},
			Fields: []FieldSpec{textField("name", true), checkboxField("is_active")},
		},
		{
			Tag: "committee", Table: "committee_master", DisplayName: "Committee",
			MenuPath:  MenuPathCommittee,
			IDColumns: []string{"committee_id", "record_id", "id"}, NameColumns: []string{"name", "committee_name"},
			Fields: []FieldSpec{textField("name", true), textField("description", false), checkboxField("is_active")},
		},
		{
			Tag: "event_type", Table: "event_type_master", DisplayName: "Event Type",
			MenuPath:  MenuPathEvent,
			IDColumns: []string{"event_type_id", "record_id", "id"}, NameColumns: []string{"name"},
			Fields: []FieldSpec{textField("name", true), checkboxField("is_active")},
		},
		{
			Tag: "event", Table: "event_master", DisplayName: "Event",
			MenuPath:  MenuPathEvent,
			IDColumns: []string{"event_id", "record_id", "id"}, NameColumns: []string{"name", "event_name"},
			Fields: []FieldSpec{
				textField("name", true),
				refField("event_type_id", "event_type"),
				textField("venue", false),
				dateField("start_date", true),
				dateField("end_date", false),
				checkboxField("is_active"),
			},
		},
		{
			Tag: "academic_year", Table: "academic_years", DisplayName: "Academic Year",
			MenuPath:  MenuPathMaster,
			IDColumns: []string{"academic_year_id", "record_id", "id"}, NameColumns: []string{"name", "year_label"},
			Fields: []FieldSpec{
				textField("name", true),
				dateField("start_date", true),
				dateField("end_date", true),
				checkboxField("is_active"),
			},
		},
		{
			Tag: "university", Table: "universities", DisplayName: "University",
			MenuPath:  MenuPathMaster,
			IDColumns: []string{"university_id", "record_id", "id"}, NameColumns: []string{"name", "university_name"},
			Fields: []FieldSpec{
				textField("name", true),
				textField("code", true),
				textField("address", false),
				checkboxField("is_active"),
			},
		},
		{
			Tag: "institute", Table: "institutes", DisplayName: "Institute",
			MenuPath:  MenuPathMaster,
			IDColumns: []string{"institute_id", "record_id", "id"}, NameColumns: []string{"name", "institute_name"},
			Fields: []FieldSpec{
				textField("name", true),
				textField("code", true),
				refField("university_id", "university"),
				textField("address", false),
				checkboxField("is_active"),
			},
		},
		{
			Tag: "program", Table: "programs", DisplayName: "Program",
			MenuPath:  MenuPathCourse,
			IDColumns: []string{"program_id", "record_id", "id"}, NameColumns: []string{"name", "program_name"},
			Fields: []FieldSpec{
				textField("name", true),
				textField("code", true),
				refField("institute_id", "institute"),
				textField("level", false),
				textField("type", false),
				textField("description", false),
				checkboxField("is_active"),
			},
		},
		{
			Tag: "branch", Table: "branches", DisplayName: "Branch",
			MenuPath:  MenuPathCourse,
			IDColumns: []string{"branch_id", "record_id", "id"}, NameColumns: []string{"name", "branch_name"},
			Fields: []FieldSpec{
				textField("name", true),
				textField("code", true),
				refField("program_id", "program"),
				textField("description", false),
				checkboxField("is_active"),
			},
		},
		{
			Tag: "year", Table: "years", DisplayName: "Year",
			MenuPath:  MenuPathCourse,
			IDColumns: []string{"year_id", "record_id", "id"}, NameColumns: []string{"name", "year"},
			Fields: []FieldSpec{
				textField("name", true),
				refField("branch_id", "branch"),
				checkboxField("is_active"),
			},
		},
		{
			Tag: "semester", Table: "semesters", DisplayName: "Semester",
			MenuPath:  MenuPathCourse,
			IDColumns: []string{"semester_id", "record_id", "id"}, NameColumns: []string{"name", "semester"},
			Fields: []FieldSpec{
				textField("name", true),
				refField("year_id", "year"),
				checkboxField("is_active"),
			},
		},
		{
			Tag: "country", Table: "countries", DisplayName: "Country",
			MenuPath:  MenuPathMaster,
			IDColumns: []string{"country_id", "record_id", "id"}, NameColumns: []string{"name"},
			Fields: []FieldSpec{
				textField("name", true),
				textField("code", true),
				textField("phone_code", false),
				checkboxField("is_active"),
			},
		},
		{
			Tag: "state", Table: "states", DisplayName: "State",
			MenuPath:  MenuPathMaster,
			IDColumns: []string{"state_id", "record_id", "id"}, NameColumns: []string{"name"},
			Fields: []FieldSpec{
				textField("name", true),
				textField("code", false),
				refField("country_id", "country"),
				checkboxField("is_active"),
			},
		},
		{
			Tag: "city", Table: "cities", DisplayName: "City",
			MenuPath:  MenuPathMaster,
			IDColumns: []string{"city_id", "record_id", "id"}, NameColumns: []string{"name"},
			Fields: []FieldSpec{
				textField("name", true),
				refField("state_id", "state"),
				checkboxField("is_active"),
			},
		},
		{
			Tag: "currency", Table: "currencies", DisplayName: "Currency",
			MenuPath:  MenuPathMaster,
			IDColumns: []string{"currency_id", "record_id", "id"}, NameColumns: []string{"name"},
			Fields: []FieldSpec{
				textField("name", true),
				textField("code", true),
				textField("symbol", false),
				checkboxField("is_active"),
			},
		},
		{
			Tag: "language", Table: "languages", DisplayName: "Language",
			MenuPath:  MenuPathMaster,
			IDColumns: []string{"language_id", "record_id", "id"}, NameColumns: []string{"name"},
			Fields: []FieldSpec{textField("name", true), textField("code", false), checkboxField("is_active")},
		},
		{
			Tag: "designation", Table: "designations", DisplayName: "Designation",
			MenuPath:  MenuPathMaster,
			IDColumns: []string{"designation_id", "record_id", "id"}, NameColumns: []string{"name"},
			Fields: []FieldSpec{
				textField("name", true),
				textField("code", true),
				textField("description", false),
				checkboxField("is_active"),
			},
		},
		{
			Tag: "department", Table: "departments", DisplayName: "Department",
			MenuPath:  MenuPathMaster,
			IDColumns: []string{"department_id", "record_id", "id"}, NameColumns: []string{"name"},
			Fields: []FieldSpec{
				textField("name", true),
				textField("code", true),
				textField("institute_code", false),
				checkboxField("is_active"),
			},
		},
		{
			Tag: "category", Table: "categories", DisplayName: "Category",
			MenuPath:  MenuPathMaster,
			IDColumns: []string{"category_id", "record_id", "id"}, NameColumns: []string{"name"},
			Fields: []FieldSpec{textField("name", true), checkboxField("is_active")},
		},
		{
			Tag: "employee_type", Table: "employee_type_master", DisplayName: "Employee Type",
			MenuPath:  MenuPathEmployee,
			IDColumns: []string{"type_id", "record_id", "id"}, NameColumns: []string{"name"},
			Fields: []FieldSpec{textField("name", true), checkboxField("is_active")},
		},
		{
			Tag: "employee_status", Table: "employee_status_master", DisplayName: "Employee Status",
			MenuPath:  MenuPathEmployee,
			IDColumns: []string{"status_id", "record_id", "id"}, NameColumns: []string{"name"},
			Fields: []FieldSpec{textField("name", true), checkboxField("is_active")},
		},
		{
			Tag: "employee_shift", Table: "employee_shift_master", DisplayName: "Employee Shift",
			MenuPath:  MenuPathEmployee,
			IDColumns: []string{"shift_id", "record_id", "id"}, NameColumns: []string{"name"},
			Fields: []FieldSpec{
				textField("name", true),
				timeField("start_time"),
				timeField("end_time"),
				checkboxField("is_active"),
			},
		},
	}

	registry := make(map[string]Entity, len(entities))
	for _, e := range entities {
		registry[e.Tag] = e
	}
	return registry
}

// LookupEntity returns the descriptor for a tag.
func LookupEntity(tag string) (Entity, bool) {
	e, ok := entityRegistry[tag]
	return e, ok
}

// Entities lists every registered master entity, ordered by tag.
func Entities() []Entity {
	out := make([]Entity, 0, len(entityRegistry))
	for _, e := range entityRegistry {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}
