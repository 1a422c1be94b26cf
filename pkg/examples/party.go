// Package examples provides demo data models for trying out erdantic.
//
// The composition graph is Party -> Adventurer (many), Party -> Quest
// (optional), Quest -> QuestGiver (mandatory).
package examples

import "time"

// Alignment is a categorical definition of morality.
type Alignment string

const (
	LawfulGood     Alignment = "lawful_good"
	NeutralGood    Alignment = "neutral_good"
	ChaoticGood    Alignment = "chaotic_good"
	LawfulNeutral  Alignment = "lawful_neutral"
	TrueNeutral    Alignment = "true_neutral"
	ChaoticNeutral Alignment = "chaotic_neutral"
	LawfulEvil     Alignment = "lawful_evil"
	NeutralEvil    Alignment = "neutral_evil"
	ChaoticEvil    Alignment = "chaotic_evil"
)

// Adventurer is a hero for hire.
type Adventurer struct {
	Name       string    `doc:"Name of this adventurer"`
	Profession string    `doc:"The profession of this adventurer"`
	Level      int       `doc:"A measure of the proficiency the adventurer has attained with their profession"`
	Alignment  Alignment `doc:"The category describing the adventurer's morality"`
}

// ModelDescription implements gostruct.Describer.
func (Adventurer) ModelDescription() string {
	return "A person often late for dinner but with a tale or two to tell."
}

// QuestGiver is a person who offers a task that needs completing.
type QuestGiver struct {
	Name     string  `doc:"Name of this quest giver"`
	Faction  *string `doc:"Faction that this quest giver belongs to"`
	Location string  `doc:"Location this quest giver can be found"`
}

// ModelDescription implements gostruct.Describer.
func (QuestGiver) ModelDescription() string {
	return "A person who offers a task that needs completing."
}

// Quest is a task to complete, with some monetary reward.
type Quest struct {
	Name       string     `doc:"Name by which this quest is referred to"`
	Giver      QuestGiver `doc:"The individual who offered the quest"`
	RewardGold int        `doc:"The amount of gold that will be awarded upon completion"`
}

// ModelDescription implements gostruct.Describer.
func (Quest) ModelDescription() string {
	return "A task to complete, with some monetary reward."
}

// Party is a group of adventurers finding themselves doing and saying
// things altogether unexpected.
type Party struct {
	Name        string       `doc:"Name that the party is known by"`
	Formed      time.Time    `doc:"When the party was put together"`
	Members     []Adventurer `doc:"The members of the party"`
	ActiveQuest *Quest       `doc:"The quest that the party is currently tackling"`
}

// ModelDescription implements gostruct.Describer.
func (Party) ModelDescription() string {
	return "A group of adventurers finding themselves doing and saying things altogether unexpected."
}
