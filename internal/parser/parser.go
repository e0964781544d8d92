package parser

import (
	"os"
	"regexp"
	"strings"
)

// Difficulty is the closed set of problem difficulties
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// DefaultStatus is assigned to every freshly parsed problem
const DefaultStatus = "Not Started"

// UnknownCategory names a category whose marker had no usable name nearby
const UnknownCategory = "Unknown Category"

// lookahead is how many lines after a category marker may hold its name
const lookahead = 3

// Links holds the generated reference URLs for a problem
type Links struct {
	YouTube  string  `json:"youtube"`
	LeetCode string  `json:"leetcode"`
	Article  *string `json:"article"` // Filled in by hand later, always nil here
}

// Problem is a single study-guide entry
type Problem struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Difficulty Difficulty `json:"difficulty"`
	Status     string     `json:"status"`
	Links      Links      `json:"links"`
}

// Category groups problems under a pattern name
type Category struct {
	Name     string    `json:"category"`
	Problems []Problem `json:"problems"`
}

var (
	categoryMarker = regexp.MustCompile(`^(I|II|III|IV|V|VI|VII|VIII|IX|X|XI|XII|XIII|XIV|XV|XVI|XVII|XVIII|XIX|XX)$`)
	problemMarker  = regexp.MustCompile(`^\d+\.$`)
	countLine      = regexp.MustCompile(`^\d+$`)
	difficultyTag  = regexp.MustCompile(`^\[(E|M|H)\]$`)
	nonSlugChars   = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
)

var difficultyCodes = map[string]Difficulty{
	"E": Easy,
	"M": Medium,
	"H": Hard,
}

// Parser converts study-guide text into categories
type Parser struct {
	categories []*Category
	byName     map[string]*Category
	seen       map[*Category]map[string]bool
	active     *Category
}

// NewParser creates a new parser
func NewParser() *Parser {
	return &Parser{
		byName: make(map[string]*Category),
		seen:   make(map[*Category]map[string]bool),
	}
}

// Parse is a convenience wrapper that runs a fresh parser over content
func Parse(content string) []Category {
	return NewParser().ParseString(content)
}

// ParseFile reads the whole file before scanning it. A missing or unreadable
// file is the only failure; no partial result is returned.
func ParseFile(path string) ([]Category, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	return NewParser().parseLines(lines), nil
}

// ParseString parses in-memory content
func (p *Parser) ParseString(content string) []Category {
	return p.parseLines(splitLines(content))
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return splitLines(string(data)), nil
}

// splitLines returns trimmed, non-empty lines
func splitLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func (p *Parser) parseLines(lines []string) []Category {
	p.reset()

	for i, line := range lines {
		if categoryMarker.MatchString(line) {
			p.activate(resolveCategoryName(lines, i))
			continue
		}

		if problemMarker.MatchString(line) {
			if problem, ok := problemAt(lines, i); ok {
				p.addProblem(problem)
			}
		}
	}

	return p.result()
}

// reset clears state left by a previous run
func (p *Parser) reset() {
	p.categories = nil
	p.byName = make(map[string]*Category)
	p.seen = make(map[*Category]map[string]bool)
	p.active = nil
}

// resolveCategoryName looks a few lines past the marker for the first line
// that is neither a count, the word "patterns", nor another marker
func resolveCategoryName(lines []string, i int) string {
	for offset := 1; offset <= lookahead; offset++ {
		if i+offset >= len(lines) {
			break
		}
		candidate := lines[i+offset]
		if countLine.MatchString(candidate) ||
			strings.EqualFold(candidate, "patterns") ||
			categoryMarker.MatchString(candidate) {
			continue
		}
		return candidate
	}
	return UnknownCategory
}

// problemAt reads title and difficulty tag following a problem marker
func problemAt(lines []string, i int) (Problem, bool) {
	if i+2 >= len(lines) {
		return Problem{}, false
	}
	title := lines[i+1]
	matches := difficultyTag.FindStringSubmatch(lines[i+2])
	if matches == nil {
		return Problem{}, false
	}
	return NewProblem(title, difficultyCodes[matches[1]]), true
}

func (p *Parser) activate(name string) {
	if existing, ok := p.byName[name]; ok {
		p.active = existing
		return
	}
	category := &Category{Name: name}
	p.categories = append(p.categories, category)
	p.byName[name] = category
	p.seen[category] = make(map[string]bool)
	p.active = category
}

func (p *Parser) addProblem(problem Problem) {
	if p.active == nil {
		return
	}
	titles := p.seen[p.active]
	if titles[problem.Title] {
		return
	}
	titles[problem.Title] = true
	p.active.Problems = append(p.active.Problems, problem)
}

// result drops categories that never received a problem
func (p *Parser) result() []Category {
	out := make([]Category, 0, len(p.categories))
	for _, category := range p.categories {
		if len(category.Problems) > 0 {
			out = append(out, *category)
		}
	}
	return out
}

// NewProblem builds a problem record with derived id and links
func NewProblem(title string, difficulty Difficulty) Problem {
	return Problem{
		ID:         Slugify(title),
		Title:      title,
		Difficulty: difficulty,
		Status:     DefaultStatus,
		Links: Links{
			YouTube:  YouTubeSearchURL(title),
			LeetCode: LeetCodeURL(title),
		},
	}
}

// Slugify lower-cases the title, strips punctuation and hyphenates whitespace
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = nonSlugChars.ReplaceAllString(slug, "")
	return whitespaceRun.ReplaceAllString(slug, "-")
}

// YouTubeSearchURL builds a search query for the problem's walkthrough
func YouTubeSearchURL(title string) string {
	return "https://www.youtube.com/results?search_query=neetcode+" + strings.Join(strings.Fields(title), "+")
}

// LeetCodeURL builds the problem page URL from its slug
func LeetCodeURL(title string) string {
	return "https://leetcode.com/problems/" + Slugify(title) + "/"
}

// Stats returns the number of categories and problems
func Stats(categories []Category) (int, int) {
	problems := 0
	for _, category := range categories {
		problems += len(category.Problems)
	}
	return len(categories), problems
}

// ParseDifficulty maps a stored difficulty name back to the enumeration
func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(s) {
	case Easy, Medium, Hard:
		return Difficulty(s), true
	}
	return "", false
}
