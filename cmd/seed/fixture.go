package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/iliyamo/festival-schedule/internal/model"
	"github.com/iliyamo/festival-schedule/internal/repository"
)

// fixture is the YAML seed file layout.  Film documents are written as
// nested YAML and stored as JSON in either schema generation.
type fixture struct {
	Activities []activityFixture `yaml:"activities"`
	Films      []filmFixture     `yaml:"films"`
}

type activityFixture struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	StartTime   string   `yaml:"start_time"`
	EndTime     string   `yaml:"end_time"`
	EventDate   string   `yaml:"event_date"`
	Venue       string   `yaml:"venue"`
	Capacity    int      `yaml:"capacity"`
	Registered  int      `yaml:"registered"`
	Speakers    []string `yaml:"speakers"`
	Organizers  []string `yaml:"organizers"`
	ImageURL    string   `yaml:"image_url"`
	Status      string   `yaml:"status"`
	Public      *bool    `yaml:"public"`
}

type filmFixture struct {
	ID          string         `yaml:"id"`
	Status      string         `yaml:"status"`
	Publication string         `yaml:"publication_status"`
	Doc         map[string]any `yaml:"doc"`
}

func (a activityFixture) model() model.Activity {
	status := a.Status
	if status == "" {
		status = "published"
	}
	public := a.Public == nil || *a.Public
	return model.Activity{
		ID: a.ID, Name: a.Name, Description: a.Description, Tags: a.Tags,
		StartTime: a.StartTime, EndTime: a.EndTime, EventDate: a.EventDate, Venue: a.Venue,
		Capacity: a.Capacity, Registered: a.Registered, Speakers: a.Speakers, Organizers: a.Organizers,
		ImageURL: a.ImageURL, Status: status, IsPublic: public,
	}
}

// document returns the film's stored JSON and its publication state, with
// published/public as defaults.
func (f filmFixture) document() (doc []byte, status, publication string, err error) {
	doc, err = json.Marshal(f.Doc)
	if err != nil {
		return nil, "", "", fmt.Errorf("film %s: %w", f.ID, err)
	}
	if _, err := repository.DecodeFilm(f.ID, doc); err != nil {
		return nil, "", "", err
	}
	status, publication = f.Status, f.Publication
	if status == "" {
		status = repository.FilmStatusPublished
	}
	if publication == "" {
		publication = repository.FilmVisibilityPublic
	}
	return doc, status, publication, nil
}

func readFixture(r io.Reader) (fixture, error) {
	var fx fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return fx, fmt.Errorf("decode fixture: %w", err)
	}
	return fx, nil
}
