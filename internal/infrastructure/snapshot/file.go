// Package snapshot reads league snapshots from JSON files for offline
// compilation.
package snapshot

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bytedance/sonic"

	"github.com/riskibarqy/castaway-fantasy/internal/domain/broadcast"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/episode"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/league"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/prediction"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/rules"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/season"
	"github.com/riskibarqy/castaway-fantasy/internal/domain/selection"
)

// document is the on-disk layout of a snapshot.
type document struct {
	Now            *time.Time         `json:"now,omitempty"`
	Episodes       []episodeJSON      `json:"episodes"`
	Castaways      []castawayJSON     `json:"castaways"`
	Tribes         []tribeJSON        `json:"tribes"`
	Members        []memberJSON       `json:"members"`
	Events         []broadcast.Event  `json:"events"`
	Updates        []updateJSON       `json:"selectionUpdates"`
	SecondaryPicks []updateJSON       `json:"secondaryPicks"`
	Predictions    []predictionJSON   `json:"predictions"`
	Rules          *rules.LeagueRules `json:"rules,omitempty"`
}

type episodeJSON struct {
	ID             int64     `json:"id"`
	EpisodeNumber  int       `json:"episodeNumber"`
	Title          string    `json:"title"`
	AirDate        time.Time `json:"airDate"`
	RuntimeMinutes int       `json:"runtime"`
	IsMerge        bool      `json:"isMerge"`
	IsFinale       bool      `json:"isFinale"`
}

type castawayJSON struct {
	ID         int64  `json:"id"`
	FullName   string `json:"fullName"`
	ShortName  string `json:"shortName"`
	Age        int    `json:"age"`
	Residence  string `json:"residence"`
	Occupation string `json:"occupation"`
	ImageURL   string `json:"imageUrl"`
}

type tribeJSON struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type memberJSON struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"displayName"`
	Color       string `json:"color"`
	Role        string `json:"role"`
	DraftOrder  int    `json:"draftOrder"`
}

type updateJSON struct {
	EpisodeNumber int   `json:"episodeNumber"`
	MemberID      int64 `json:"memberId"`
	CastawayID    int64 `json:"castawayId"`
	Draft         bool  `json:"draft,omitempty"`
}

type predictionJSON struct {
	ID            int64               `json:"id"`
	MemberID      int64               `json:"memberId"`
	EpisodeNumber int                 `json:"episodeNumber"`
	EventName     broadcast.EventName `json:"eventName"`
	Custom        bool                `json:"custom"`
	Reference     broadcast.Reference `json:"reference"`
	Bet           *int                `json:"bet,omitempty"`
}

// Decode reads a snapshot document. Rules absent from the document fall back
// to the defaults field by field.
func Decode(r io.Reader) (scoring.Input, *time.Time, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return scoring.Input{}, nil, fmt.Errorf("read snapshot: %w", err)
	}

	defaults := rules.Default()
	doc := document{Rules: &defaults}
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return scoring.Input{}, nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if doc.Rules == nil {
		doc.Rules = &defaults
	}
	if err := doc.Rules.Validate(); err != nil {
		return scoring.Input{}, nil, err
	}
	for _, item := range doc.Events {
		if err := item.Validate(); err != nil {
			return scoring.Input{}, nil, fmt.Errorf("event=%d: %w", item.ID, err)
		}
	}

	return doc.input(), doc.Now, nil
}

// Load reads a snapshot file.
func Load(path string) (scoring.Input, *time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return scoring.Input{}, nil, fmt.Errorf("open snapshot %s: %w", path, err)
	}
	defer f.Close()

	return Decode(f)
}

func (f document) input() scoring.Input {
	out := scoring.Input{
		Episodes:       make([]episode.Episode, 0, len(f.Episodes)),
		Castaways:      make([]season.Castaway, 0, len(f.Castaways)),
		Tribes:         make([]season.Tribe, 0, len(f.Tribes)),
		Members:        make([]league.Member, 0, len(f.Members)),
		Events:         append([]broadcast.Event(nil), f.Events...),
		Updates:        make([]selection.Update, 0, len(f.Updates)),
		SecondaryPicks: make([]selection.SecondaryPick, 0, len(f.SecondaryPicks)),
		Predictions:    make([]prediction.Prediction, 0, len(f.Predictions)),
		Rules:          *f.Rules,
	}

	for _, item := range f.Episodes {
		out.Episodes = append(out.Episodes, episode.Episode{
			ID:             item.ID,
			EpisodeNumber:  item.EpisodeNumber,
			Title:          item.Title,
			AirDate:        item.AirDate.UTC(),
			RuntimeMinutes: item.RuntimeMinutes,
			IsMerge:        item.IsMerge,
			IsFinale:       item.IsFinale,
		})
	}
	for _, item := range f.Castaways {
		out.Castaways = append(out.Castaways, season.Castaway{
			ID:         item.ID,
			FullName:   item.FullName,
			ShortName:  item.ShortName,
			Age:        item.Age,
			Residence:  item.Residence,
			Occupation: item.Occupation,
			ImageURL:   item.ImageURL,
		})
	}
	for _, item := range f.Tribes {
		out.Tribes = append(out.Tribes, season.Tribe{ID: item.ID, Name: item.Name, Color: item.Color})
	}
	for _, item := range f.Members {
		out.Members = append(out.Members, league.Member{
			ID:          item.ID,
			DisplayName: item.DisplayName,
			Color:       item.Color,
			Role:        league.Role(item.Role),
			DraftOrder:  item.DraftOrder,
		})
	}
	for _, item := range f.Updates {
		out.Updates = append(out.Updates, selection.Update{
			EpisodeNumber: item.EpisodeNumber,
			MemberID:      item.MemberID,
			CastawayID:    item.CastawayID,
			Draft:         item.Draft,
		})
	}
	for _, item := range f.SecondaryPicks {
		out.SecondaryPicks = append(out.SecondaryPicks, selection.SecondaryPick{
			EpisodeNumber: item.EpisodeNumber,
			MemberID:      item.MemberID,
			CastawayID:    item.CastawayID,
		})
	}
	for _, item := range f.Predictions {
		out.Predictions = append(out.Predictions, prediction.Prediction{
			ID:            item.ID,
			MemberID:      item.MemberID,
			EpisodeNumber: item.EpisodeNumber,
			EventName:     item.EventName,
			Custom:        item.Custom,
			Reference:     item.Reference,
			Bet:           item.Bet,
		})
	}
	return out
}

// Encode writes v as indented JSON.
func Encode(w io.Writer, v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
