package fantasy

import (
	"sort"

	"github.com/gregleo12/fpl-sub001/internal/domain/player"
)

// PlayerScore is a player's points for one gameweek, either calculated from
// live stats or read from the persisted store.
type PlayerScore struct {
	PlayerID  int
	Name      string
	Position  player.Position
	Minutes   int
	Points    int
	Breakdown map[string]int
}

// AggregateInput.Positions covers picks without a score so they still
// occupy their formation slot during auto-substitution.
type AggregateInput struct {
	Picks        []SquadPick
	Players      map[int]PlayerScore
	Positions    map[int]player.Position
	Chip         Chip
	TransferCost int
}

// PlayerContribution is one squad member's share of the gameweek score.
type PlayerContribution struct {
	PlayerID       int             `json:"player_id"`
	Name           string          `json:"name,omitempty"`
	Position       player.Position `json:"position,omitempty"`
	LineupPosition int             `json:"lineup_position"`
	Minutes        int             `json:"minutes"`
	BasePoints     int             `json:"base_points"`
	Multiplier     int             `json:"multiplier"`
	Points         int             `json:"points"`
	Counted        bool            `json:"counted"`
	IsCaptain      bool            `json:"is_captain"`
	IsViceCaptain  bool            `json:"is_vice_captain"`
	SubbedIn       bool            `json:"subbed_in"`
	SubbedOut      bool            `json:"subbed_out"`
	Missing        bool            `json:"missing"`
	Breakdown      map[string]int  `json:"breakdown,omitempty"`
}

type Substitution struct {
	OutPlayerID int `json:"out_player_id"`
	InPlayerID  int `json:"in_player_id"`
}

// LiveScore is one manager's aggregated gameweek score.
type LiveScore struct {
	GrossTotal    int
	NetTotal      int
	TransferCost  int
	ActiveChip    Chip
	CaptainID     int
	CaptainName   string
	Players       []PlayerContribution
	Missing       []int
	Substitutions []Substitution
}

// Aggregate combines a squad, its captaincy, the active chip and the transfer
// hit into one score. Players without data count as zero and are reported in
// Missing; a squad with no usable captain simply gets no multiplier.
func Aggregate(in AggregateInput, rules FormationRules) LiveScore {
	picks := append([]SquadPick(nil), in.Picks...)
	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].LineupPosition < picks[j].LineupPosition
	})

	out := LiveScore{
		ActiveChip:   in.Chip,
		TransferCost: max(in.TransferCost, 0),
		Players:      make([]PlayerContribution, 0, len(picks)),
	}

	for _, pick := range picks {
		score, ok := in.Players[pick.PlayerID]
		contribution := PlayerContribution{
			PlayerID:       pick.PlayerID,
			LineupPosition: pick.LineupPosition,
			IsCaptain:      pick.IsCaptain,
			IsViceCaptain:  pick.IsViceCaptain,
			Missing:        !ok,
		}
		if ok {
			contribution.Name = score.Name
			contribution.Position = score.Position
			contribution.Minutes = score.Minutes
			contribution.BasePoints = score.Points
			contribution.Breakdown = score.Breakdown
		} else {
			contribution.Position = in.Positions[pick.PlayerID]
			out.Missing = append(out.Missing, pick.PlayerID)
		}
		contribution.Counted = rules.IsStarter(pick) || in.Chip == ChipBenchBoost
		out.Players = append(out.Players, contribution)
	}

	if in.Chip != ChipBenchBoost {
		out.Substitutions = autoSubstitute(out.Players, rules)
	}

	captainIdx := effectiveCaptain(out.Players)
	captainMultiplier := 2
	if in.Chip == ChipTripleCaptain {
		captainMultiplier = 3
	}

	for idx := range out.Players {
		item := &out.Players[idx]
		if !item.Counted {
			continue
		}
		item.Multiplier = 1
		if idx == captainIdx {
			item.Multiplier = captainMultiplier
		}
		item.Points = item.BasePoints * item.Multiplier
		out.GrossTotal += item.Points
	}
	if captainIdx >= 0 {
		out.CaptainID = out.Players[captainIdx].PlayerID
		out.CaptainName = out.Players[captainIdx].Name
	}

	out.NetTotal = out.GrossTotal - out.TransferCost
	return out
}

// autoSubstitute replaces non-playing starters with the first bench player,
// in bench order, who played and keeps the formation valid.
func autoSubstitute(players []PlayerContribution, rules FormationRules) []Substitution {
	counts := make(map[player.Position]int)
	for _, item := range players {
		if item.Counted {
			counts[item.Position]++
		}
	}

	var subs []Substitution
	used := make(map[int]struct{})
	for starterIdx := range players {
		starter := &players[starterIdx]
		if !starter.Counted || starter.Minutes > 0 {
			continue
		}

		for benchIdx := range players {
			candidate := &players[benchIdx]
			if candidate.Counted || candidate.SubbedOut || candidate.Minutes <= 0 {
				continue
			}
			if _, taken := used[benchIdx]; taken {
				continue
			}
			if !goalkeeperSwapAllowed(starter.Position, candidate.Position, rules) {
				continue
			}

			counts[starter.Position]--
			counts[candidate.Position]++
			if !rules.FormationFits(counts) {
				counts[candidate.Position]--
				counts[starter.Position]++
				continue
			}

			starter.Counted = false
			starter.SubbedOut = true
			candidate.Counted = true
			candidate.SubbedIn = true
			used[benchIdx] = struct{}{}
			subs = append(subs, Substitution{OutPlayerID: starter.PlayerID, InPlayerID: candidate.PlayerID})
			break
		}
	}
	return subs
}

func goalkeeperSwapAllowed(out, in player.Position, rules FormationRules) bool {
	if !rules.GoalkeeperForGoalkeeper {
		return true
	}
	return (out == player.PositionGoalkeeper) == (in == player.PositionGoalkeeper)
}

// effectiveCaptain returns the index of the counted player wearing the
// armband: the captain if they played, else the vice if they played, else -1.
func effectiveCaptain(players []PlayerContribution) int {
	captain, vice := -1, -1
	for idx, item := range players {
		if item.IsCaptain {
			captain = idx
		}
		if item.IsViceCaptain {
			vice = idx
		}
	}
	if captain >= 0 && players[captain].Counted && players[captain].Minutes > 0 {
		return captain
	}
	if vice >= 0 && players[vice].Counted && players[vice].Minutes > 0 {
		return vice
	}
	return -1
}
