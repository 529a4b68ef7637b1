package model

type SkillCategory string

const (
	SkillCategoryFrontend SkillCategory = "Frontend"
	SkillCategoryBackend  SkillCategory = "Backend"
	SkillCategoryDatabase SkillCategory = "Database"
	SkillCategoryTools    SkillCategory = "Tools"
	SkillCategoryOther    SkillCategory = "Other"
)

// SkillCategories lists the accepted categories in display order.
var SkillCategories = []SkillCategory{
	SkillCategoryFrontend,
	SkillCategoryBackend,
	SkillCategoryDatabase,
	SkillCategoryTools,
	SkillCategoryOther,
}

func (c SkillCategory) Valid() bool {
	for _, v := range SkillCategories {
		if c == v {
			return true
		}
	}
	return false
}
