package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"bartr_server/models"

	"github.com/redis/go-redis/v9"
)

const (
	aiMatchCacheTTL = 10 * time.Minute
	aiMatchMaxRank  = 20
)

// MatchCandidate is one ranked provider in an AI-match response.
type MatchCandidate struct {
	UserID         string   `json:"userId"`
	Name           string   `json:"name"`
	Bio            string   `json:"bio"`
	SkillsOffered  []string `json:"skills_offered"`
	RelevanceScore float64  `json:"relevance_score"`
}

// GeminiClient calls the generative-language REST API for relevance scoring.
type GeminiClient struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		BaseURL:    "https://generativelanguage.googleapis.com",
		APIKey:     apiKey,
		Model:      model,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// GenerateContent sends a single-turn prompt and returns the raw model text.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("gemini: api key not configured")
	}

	body, _ := json.Marshal(map[string]interface{}{
		"contents": []map[string]interface{}{
			{"role": "user", "parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]interface{}{
			"temperature":     0.7,
			"maxOutputTokens": 2048,
		},
	})

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", strings.TrimRight(c.BaseURL, "/"), c.Model, c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("gemini returned %d: %s", resp.StatusCode, string(payload))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("gemini: decode: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}

// AIMatchService ranks providers for a user's needed skills, via Gemini with
// a deterministic overlap fallback, caching rankings briefly in Redis.
type AIMatchService struct {
	Profiles *UserProfileService
	Gemini   *GeminiClient
	Cache    *redis.Client
}

// RankMatches returns the best providers for the user's needed skills.
func (s *AIMatchService) RankMatches(ctx context.Context, userID string) ([]MatchCandidate, error) {
	if cached := s.cacheGet(ctx, userID); cached != nil {
		log.Printf("✅ AI match cache hit for %s", userID)
		return cached, nil
	}

	me, err := s.Profiles.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(me.SkillsNeeded) == 0 {
		log.Printf("ℹ️ User %s has no needed skills specified", userID)
		return []MatchCandidate{}, nil
	}

	others, err := s.Profiles.BrowseUsers(ctx, userID)
	if err != nil {
		return nil, err
	}
	var providers []models.UserProfile
	for _, p := range others {
		if len(p.SkillsOffered) > 0 {
			providers = append(providers, p)
		}
	}
	if len(providers) == 0 {
		return []MatchCandidate{}, nil
	}

	candidates := s.rankWithGemini(ctx, me, providers)
	if candidates == nil {
		log.Printf("⚠️ Falling back to overlap scoring for %s", userID)
		candidates = rankByOverlap(me.SkillsNeeded, providers)
	}

	s.cacheSet(ctx, userID, candidates)
	return candidates, nil
}

func (s *AIMatchService) rankWithGemini(ctx context.Context, me *models.UserProfile, providers []models.UserProfile) []MatchCandidate {
	if s.Gemini == nil {
		return nil
	}

	text, err := s.Gemini.GenerateContent(ctx, buildMatchPrompt(me, providers))
	if err != nil {
		log.Printf("❌ Gemini call failed: %v", err)
		return nil
	}

	candidates, err := parseCandidateJSON(text)
	if err != nil {
		log.Printf("❌ Failed to parse Gemini response: %v", err)
		return nil
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates
}

// parseCandidateJSON strips markdown fencing and decodes the ranked array.
func parseCandidateJSON(text string) ([]MatchCandidate, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if !strings.HasPrefix(cleaned, "[") || !strings.HasSuffix(cleaned, "]") {
		return nil, fmt.Errorf("response is not a JSON array")
	}

	var candidates []MatchCandidate
	if err := json.Unmarshal([]byte(cleaned), &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// rankByOverlap scores providers by needed/offered skill overlap:
// min(10, max(1, 2 × matches)), keeping scores above 1, best first,
// capped at 20.
func rankByOverlap(needed []string, providers []models.UserProfile) []MatchCandidate {
	neededSet := make(map[string]bool, len(needed))
	for _, skill := range needed {
		neededSet[strings.ToLower(skill)] = true
	}

	candidates := []MatchCandidate{}
	for _, p := range providers {
		matched := 0
		for _, skill := range p.SkillsOffered {
			if neededSet[strings.ToLower(skill)] {
				matched++
			}
		}
		score := float64(2 * matched)
		if score > 10 {
			score = 10
		}
		if score < 1 {
			score = 1
		}
		if score <= 1 {
			continue
		}
		candidates = append(candidates, MatchCandidate{
			UserID:         p.UserID,
			Name:           p.Name,
			Bio:            p.Bio,
			SkillsOffered:  p.SkillsOffered,
			RelevanceScore: score,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RelevanceScore > candidates[j].RelevanceScore
	})
	if len(candidates) > aiMatchMaxRank {
		candidates = candidates[:aiMatchMaxRank]
	}
	return candidates
}

func buildMatchPrompt(me *models.UserProfile, providers []models.UserProfile) string {
	type promptProvider struct {
		UserID        string   `json:"userId"`
		Name          string   `json:"name"`
		Bio           string   `json:"bio"`
		SkillsOffered []string `json:"skills_offered"`
	}
	list := make([]promptProvider, 0, len(providers))
	for _, p := range providers {
		list = append(list, promptProvider{UserID: p.UserID, Name: p.Name, Bio: p.Bio, SkillsOffered: p.SkillsOffered})
	}

	needs, _ := json.Marshal(map[string]interface{}{"userId": me.UserID, "skills_needed": me.SkillsNeeded})
	offers, _ := json.Marshal(list)

	return fmt.Sprintf(`You are a skill-matching engine for a skill-bartering platform.

Requester:
%s

Potential providers:
%s

Score each provider 1-10 on how well their offered skills cover the requester's needs, rank descending, keep scores >= 3, and return at most 10 entries.

Respond with only a JSON array of objects shaped like:
[{"userId": "string", "name": "string", "bio": "string", "skills_offered": ["string"], "relevance_score": 0}]
No explanations before or after the JSON.`, string(needs), string(offers))
}

func (s *AIMatchService) cacheGet(ctx context.Context, userID string) []MatchCandidate {
	if s.Cache == nil {
		return nil
	}
	raw, err := s.Cache.Get(ctx, "aimatch:"+userID).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		log.Printf("⚠️ AI match cache read failed: %v", err)
		return nil
	}

	var candidates []MatchCandidate
	if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
		return nil
	}
	return candidates
}

func (s *AIMatchService) cacheSet(ctx context.Context, userID string, candidates []MatchCandidate) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(candidates)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, "aimatch:"+userID, raw, aiMatchCacheTTL).Err(); err != nil {
		log.Printf("⚠️ AI match cache write failed: %v", err)
	}
}
