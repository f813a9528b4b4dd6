// Package content holds the site's editorial content: programs, FAQs, the
// staff directory, emergency contacts, volunteer roles and news sources.
//
// Content lives in embedded YAML tables and is read-only for the life of the
// process. Changing copy means editing data/*.yaml and redeploying.
package content

import (
	"embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Program is one of the organisation's service lines
type Program struct {
	Slug       string   `yaml:"slug"`
	Title      string   `yaml:"title"`
	Summary    string   `yaml:"summary"`
	Body       []string `yaml:"body"`
	Highlights []string `yaml:"highlights"`
	Image      string   `yaml:"image"`
}

// FAQ is a single question/answer pair shown in an accordion
type FAQ struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
	Category string `yaml:"category"`
}

// FAQGroup is a category heading with its questions, in file order
type FAQGroup struct {
	Category string
	Items    []FAQ
}

// TeamMember is an entry in the staff directory
type TeamMember struct {
	Name      string   `yaml:"name"`
	Role      string   `yaml:"role"`
	Team      string   `yaml:"team"`
	Languages []string `yaml:"languages"`
	Bio       string   `yaml:"bio"`
	Photo     string   `yaml:"photo"`
}

// EmergencyResource is a phone line or service listed on the emergency page
type EmergencyResource struct {
	Name        string `yaml:"name"`
	Phone       string `yaml:"phone"`
	Description string `yaml:"description"`
	URL         string `yaml:"url"`
	Urgent      bool   `yaml:"urgent"`
}

// VolunteerRole is an open call for volunteers
type VolunteerRole struct {
	Slug        string `yaml:"slug"`
	Title       string `yaml:"title"`
	Commitment  string `yaml:"commitment"`
	Description string `yaml:"description"`
}

// NewsSource is an external article the news page aggregates.
// Title, Image, Date and Topic are optional; when set they win over
// whatever is scraped from the page.
type NewsSource struct {
	URL   string `yaml:"url"`
	Title string `yaml:"title"`
	Image string `yaml:"image"`
	Date  string `yaml:"date"`
	Topic string `yaml:"topic"`
}

// NavLink is an entry in the header or footer navigation
type NavLink struct {
	Label string `yaml:"label"`
	Path  string `yaml:"path"`
}

// Organisation holds contact details printed in the footer and contact page
type Organisation struct {
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline"`
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
	Address string `yaml:"address"`
	Hours   string `yaml:"hours"`
	ABN     string `yaml:"abn"`
}

// Site is the full set of content tables
type Site struct {
	Organisation Organisation        `yaml:"organisation"`
	Nav          []NavLink           `yaml:"nav"`
	FooterLinks  []NavLink           `yaml:"footer_links"`
	Programs     []Program           `yaml:"programs"`
	FAQs         []FAQ               `yaml:"faqs"`
	Team         []TeamMember        `yaml:"team"`
	Emergency    []EmergencyResource `yaml:"emergency"`
	Volunteer    []VolunteerRole     `yaml:"volunteer_roles"`
	News         []NewsSource        `yaml:"news"`
}

// Load parses every embedded content table into a Site
func Load() (*Site, error) {
	site := &Site{}
	files := []string{"site.yaml", "programs.yaml", "faqs.yaml", "team.yaml", "emergency.yaml", "volunteer.yaml", "news.yaml"}
	for _, name := range files {
		data, err := dataFS.ReadFile("data/" + name)
		if err != nil {
			return nil, fmt.Errorf("read content %s: %w", name, err)
		}
		if err := yaml.Unmarshal(data, site); err != nil {
			return nil, fmt.Errorf("parse content %s: %w", name, err)
		}
	}
	if err := site.validate(); err != nil {
		return nil, err
	}
	return site, nil
}

// MustLoad is Load for use at startup
func MustLoad() *Site {
	site, err := Load()
	if err != nil {
		panic(err)
	}
	return site
}

func (s *Site) validate() error {
	seen := make(map[string]bool, len(s.Programs))
	for _, p := range s.Programs {
		if p.Slug == "" {
			return fmt.Errorf("program %q has no slug", p.Title)
		}
		if seen[p.Slug] {
			return fmt.Errorf("duplicate program slug %q", p.Slug)
		}
		seen[p.Slug] = true
	}
	for _, n := range s.News {
		if n.URL == "" {
			return fmt.Errorf("news source %q has no url", n.Title)
		}
	}
	return nil
}

// Program returns the program with the given slug
func (s *Site) Program(slug string) (Program, bool) {
	for _, p := range s.Programs {
		if p.Slug == slug {
			return p, true
		}
	}
	return Program{}, false
}

// VolunteerRole returns the volunteer role with the given slug
func (s *Site) VolunteerRole(slug string) (VolunteerRole, bool) {
	for _, r := range s.Volunteer {
		if r.Slug == slug {
			return r, true
		}
	}
	return VolunteerRole{}, false
}

// FAQsByCategory groups FAQs by category, keeping the order in which each
// category first appears.
func (s *Site) FAQsByCategory() []FAQGroup {
	var groups []FAQGroup
	index := make(map[string]int)
	for _, f := range s.FAQs {
		category := f.Category
		if category == "" {
			category = "General"
		}
		i, ok := index[category]
		if !ok {
			i = len(groups)
			index[category] = i
			groups = append(groups, FAQGroup{Category: category})
		}
		groups[i].Items = append(groups[i].Items, f)
	}
	return groups
}

// TeamsByName groups the staff directory by team, teams sorted alphabetically
func (s *Site) TeamsByName() map[string][]TeamMember {
	teams := make(map[string][]TeamMember)
	for _, m := range s.Team {
		teams[m.Team] = append(teams[m.Team], m)
	}
	for _, members := range teams {
		sort.SliceStable(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	}
	return teams
}

// UrgentResources returns only the resources flagged urgent
func (s *Site) UrgentResources() []EmergencyResource {
	var out []EmergencyResource
	for _, r := range s.Emergency {
		if r.Urgent {
			out = append(out, r)
		}
	}
	return out
}

// NewsSources returns the configured news links
func (s *Site) NewsSources() []NewsSource {
	return s.News
}
