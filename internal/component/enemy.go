package component

// NoCooldown marks an enemy that can be targeted right now.
const NoCooldown = -1.0

// TypingEnemy groups enemies that share a cooldown. A negative GroupID means
// the enemy belongs to no group.
type TypingEnemy struct {
	GroupID       int     `yaml:"group_id"`
	Active        bool    `yaml:"active"`
	CooldownStart float64 `yaml:"cooldown_start"` // beat time, NoCooldown when ready
}
