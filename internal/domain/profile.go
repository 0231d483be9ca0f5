package domain

// Role 是来源页面中的职业分类，用于选择代词。
type Role string

const (
	RoleActor   Role = "actor"
	RoleActress Role = "actress"
)

// Profile 是一次运行内只构造一次的人物信息。
type Profile struct {
	Deceased  bool
	DeathYear int // Deceased=false 时为 0
	BirthYear int // 未知时为 0
	Role      Role
}

// Pronouns 是叙述时使用的一组代词。
type Pronouns struct {
	Subject    string // he / she
	Possessive string // his / her
	RoleNoun   string // actor / actress
}

func (p Profile) Pronouns() Pronouns {
	if p.Role == RoleActress {
		return Pronouns{Subject: "she", Possessive: "her", RoleNoun: "actress"}
	}
	return Pronouns{Subject: "he", Possessive: "his", RoleNoun: "actor"}
}
