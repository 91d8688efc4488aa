// Package codec defines the JSON wire format between server and
// clients and the projection from engine snapshots to per-viewer
// game states.
package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ultimatthi/bridge-delta-null/bridge"
)

// Client message types.
const (
	TypeJoin      = "join"
	TypeLockBid   = "lock_bid"
	TypePlayCard  = "play_card"
	TypeTakeTrick = "take_trick"
	TypeLeaveGame = "leave_game"
)

// Server envelope types.
const (
	TypeState = "state"
	TypeError = "error"
)

// ClientMessage is every inbound frame. Type selects which of the
// optional fields are meaningful.
type ClientMessage struct {
	Type string `json:"type"`

	// join
	PlayerPosition string `json:"player_position,omitempty"`
	PlayerName     string `json:"player_name,omitempty"`
	SessionToken   string `json:"session_token,omitempty"`

	// play_card
	CardSuit  string `json:"card_suit,omitempty"`
	CardValue string `json:"card_value,omitempty"`

	// lock_bid
	BidType  string `json:"bid_type,omitempty"`
	BidLevel int    `json:"bid_level,omitempty"`
	BidSuit  string `json:"bid_suit,omitempty"`
}

func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("decode client message: %w", err)
	}
	if msg.Type == "" {
		return ClientMessage{}, fmt.Errorf("decode client message: missing type")
	}
	return msg, nil
}

// ServerEnvelope is every outbound frame.
type ServerEnvelope struct {
	Type       string     `json:"type"`
	ServerSeq  uint64     `json:"server_seq"`
	ServerTsMs int64      `json:"server_ts_ms"`
	State      *GameState `json:"state,omitempty"`
	Error      *ErrorInfo `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WrapState(seq uint64, state *GameState) ServerEnvelope {
	return ServerEnvelope{
		Type:       TypeState,
		ServerSeq:  seq,
		ServerTsMs: time.Now().UnixMilli(),
		State:      state,
	}
}

func WrapError(seq uint64, code, message string) ServerEnvelope {
	return ServerEnvelope{
		Type:       TypeError,
		ServerSeq:  seq,
		ServerTsMs: time.Now().UnixMilli(),
		Error:      &ErrorInfo{Code: code, Message: message},
	}
}

// GameState mirrors the engine snapshot in client terms. Nullable
// fields are pointers so absent values serialize as JSON null.
type GameState struct {
	GamePhase        string       `json:"game_phase"`
	CurrentTurn      string       `json:"current_turn"`
	Sound            *string      `json:"sound"`
	ContractSuit     *string      `json:"contract_suit"`
	ContractLevel    *int         `json:"contract_level"`
	ContractDoubled  string       `json:"contract_doubled"`
	ContractTeam     *string      `json:"contract_team"`
	Score            int          `json:"score"`
	CurrentGame      int          `json:"current_game"`
	TotalGames       int          `json:"total_games"`
	Vulnerability    string       `json:"vulnerability"`
	DummyPosition    *string      `json:"dummy_position"`
	DeclarerPosition *string      `json:"declarer_position"`
	Cards            []CardInfo   `json:"cards"`
	BiddingHistory   []BidInfo    `json:"bidding_history"`
	Players          []PlayerInfo `json:"players"`
}

type CardInfo struct {
	Suit     string  `json:"suit"`
	Value    string  `json:"value"`
	Facing   string  `json:"facing"`
	Location string  `json:"location"`
	Owner    *string `json:"owner"`
	Trick    *string `json:"trick"`
}

type BidInfo struct {
	Player string  `json:"player"`
	Type   string  `json:"type"`
	Level  *int    `json:"level"`
	Suit   *string `json:"suit"`
	Team   string  `json:"team"`
}

type PlayerInfo struct {
	Name     string  `json:"name"`
	Position string  `json:"position"`
	Team     string  `json:"team"`
	BidSuit  *string `json:"bid_suit"`
	BidLevel *int    `json:"bid_level"`
	BidType  *string `json:"bid_type"`
}

// BuildGameState projects a snapshot into the state sent to one
// viewer. Cards the viewer may not see keep their position but lose
// suit and value.
func BuildGameState(snap bridge.Snapshot, viewer bridge.Seat) *GameState {
	gs := &GameState{
		GamePhase:       snap.Phase.String(),
		CurrentTurn:     snap.CurrentTurn.String(),
		Sound:           optString(snap.Sound),
		ContractDoubled: yesNo(snap.Contract.Doubled),
		Score:           snap.Score,
		CurrentGame:     snap.DealNumber,
		TotalGames:      snap.TotalDeals,
		Vulnerability:   snap.Vulnerability.String(),
	}
	if snap.Contract.Level > 0 {
		level := snap.Contract.Level
		suit := snap.Contract.Strain.String()
		team := snap.Contract.Team.String()
		gs.ContractLevel = &level
		gs.ContractSuit = &suit
		gs.ContractTeam = &team
	}
	if snap.Dummy != bridge.SeatNone {
		dummy := snap.Dummy.String()
		gs.DummyPosition = &dummy
	}
	if snap.Declarer != bridge.SeatNone {
		declarer := snap.Declarer.String()
		gs.DeclarerPosition = &declarer
	}

	for _, cs := range snap.Cards {
		info := CardInfo{
			Facing:   cs.Facing.String(),
			Location: cs.Location.String(),
		}
		if cs.Owner != bridge.SeatNone {
			owner := cs.Owner.String()
			info.Owner = &owner
		}
		if cs.WonBy != bridge.TeamNone {
			trick := cs.WonBy.String()
			info.Trick = &trick
		}
		if cardVisible(snap, cs, viewer) {
			info.Suit = cs.Card.Suit().Name()
			info.Value = cs.Card.ValueName()
		} else {
			info.Facing = bridge.FaceDown.String()
		}
		gs.Cards = append(gs.Cards, info)
	}

	for _, bid := range snap.History {
		info := BidInfo{
			Player: bid.Seat.String(),
			Type:   bid.Type.String(),
			Team:   bid.Team.String(),
		}
		if bid.Type == bridge.BidNormal {
			level := bid.Level
			suit := bid.Strain.String()
			info.Level = &level
			info.Suit = &suit
		}
		gs.BiddingHistory = append(gs.BiddingHistory, info)
	}

	for _, p := range snap.Players {
		info := PlayerInfo{
			Name:     p.Name,
			Position: p.Seat.String(),
			Team:     p.Team.String(),
		}
		if p.HasBid {
			bt := p.BidType.String()
			info.BidType = &bt
			if p.BidType == bridge.BidNormal {
				level := p.BidLevel
				suit := p.BidStrain.String()
				info.BidLevel = &level
				info.BidSuit = &suit
			}
		}
		gs.Players = append(gs.Players, info)
	}

	return gs
}

// cardVisible decides whether the viewer may see a card's face. Own
// hand is always visible; the dummy's hand opens up once play starts;
// the active trick is public; captured tricks stay hidden.
func cardVisible(snap bridge.Snapshot, cs bridge.CardSnapshot, viewer bridge.Seat) bool {
	switch cs.Location {
	case bridge.LocTable:
		return true
	case bridge.LocTricks:
		return false
	case bridge.LocHand:
		if viewer == bridge.SeatNone || cs.Owner == viewer {
			return true
		}
		if snap.Phase == bridge.PhasePlaying && cs.Owner == snap.Dummy {
			return true
		}
		return false
	}
	return false
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
