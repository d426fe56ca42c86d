package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/signalsfoundry/comm-planner/core"
	"github.com/signalsfoundry/comm-planner/model"
	"github.com/signalsfoundry/comm-planner/route"
)

// internal JSON shapes for the mission and route input files - unexported so
// the on-disk format can evolve separately from the domain model.
type missionJSON struct {
	ID      string              `json:"id"`
	Name    string              `json:"name"`
	RouteID string              `json:"route_id"`
	Config  transportConfigJSON `json:"config"`
}

type transportConfigJSON struct {
	InitialXSatellite   string              `json:"initial_x_satellite"`
	DefaultKaSatellites []string            `json:"default_ka_satellites"`
	XTransitions        []model.XTransition `json:"x_transitions"`
	KaOutages           []outageJSON        `json:"ka_outages"`
	KuOverrides         []outageJSON        `json:"ku_overrides"`
	AARWindows          []model.AARWindow   `json:"aar_windows"`
}

type outageJSON struct {
	ID       string    `json:"id"`
	Start    time.Time `json:"start"`
	Duration string    `json:"duration"` // e.g. "20m"
	Reason   string    `json:"reason"`
}

type routeFileJSON struct {
	Samples []route.Sample `json:"samples"`
}

type tleFileJSON struct {
	TLEs []core.TLE `json:"tles"`
}

func loadMission(path string) (*model.Mission, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mission %q: %w", path, err)
	}
	var doc missionJSON
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse mission %q: %w", path, err)
	}
	if doc.ID == "" {
		return nil, fmt.Errorf("mission %q: missing id", path)
	}

	cfg := model.TransportConfig{
		InitialXSatellite:   doc.Config.InitialXSatellite,
		DefaultKaSatellites: doc.Config.DefaultKaSatellites,
		XTransitions:        doc.Config.XTransitions,
		AARWindows:          doc.Config.AARWindows,
	}
	for _, o := range doc.Config.KaOutages {
		d, err := time.ParseDuration(o.Duration)
		if err != nil {
			return nil, fmt.Errorf("mission %q: Ka outage %s: bad duration %q: %w", path, o.ID, o.Duration, err)
		}
		cfg.KaOutages = append(cfg.KaOutages, model.KaOutage{
			ID: o.ID, Start: o.Start, Duration: d, Reason: o.Reason,
		})
	}
	for _, o := range doc.Config.KuOverrides {
		d, err := time.ParseDuration(o.Duration)
		if err != nil {
			return nil, fmt.Errorf("mission %q: Ku override %s: bad duration %q: %w", path, o.ID, o.Duration, err)
		}
		cfg.KuOverrides = append(cfg.KuOverrides, model.KuOutageOverride{
			ID: o.ID, Start: o.Start, Duration: d, Reason: o.Reason,
		})
	}

	return &model.Mission{
		ID:      doc.ID,
		Name:    doc.Name,
		RouteID: doc.RouteID,
		Config:  cfg,
		Active:  true,
	}, nil
}

func loadRoute(path string) (*route.Route, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read route %q: %w", path, err)
	}
	var doc routeFileJSON
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse route %q: %w", path, err)
	}
	r, err := route.New(doc.Samples)
	if err != nil {
		return nil, fmt.Errorf("route %q: %w", path, err)
	}
	return r, nil
}

func loadTLEs(path string) ([]core.TLE, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read TLE file %q: %w", path, err)
	}
	var doc tleFileJSON
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse TLE file %q: %w", path, err)
	}
	return doc.TLEs, nil
}
