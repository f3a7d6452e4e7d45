package db

const (
	TeamGroupBoard      = "board"
	TeamGroupManagement = "management"
	TeamGroupInvestment = "investment"
)

// TeamGroups lists accepted team member groups.
var TeamGroups = []string{TeamGroupBoard, TeamGroupManagement, TeamGroupInvestment}

// TeamMember 是关于我们页面展示的董事会与管理层成员
type TeamMember struct {
	Model
	Name        string `gorm:"size:120;not null" json:"name"`
	Position    string `gorm:"size:120;not null" json:"position"`
	Group       string `gorm:"column:team_group;size:30;index;not null" json:"group"`
	Bio         string `gorm:"type:text" json:"bio"`
	PhotoURL    string `gorm:"size:255" json:"photoUrl"`
	LinkedInURL string `gorm:"size:255" json:"linkedInUrl"`
	SortOrder   int    `gorm:"default:0" json:"sortOrder"`
	IsActive    bool   `gorm:"not null" json:"isActive"`
}
