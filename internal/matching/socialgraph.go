package matching

import (
	"math"
	"sort"
	"time"

	"github.com/sistersconnect/backend/internal/domain"
)

const (
	maxSocialBonus    = 50.0
	maxMutualBonus    = 25.0
	maxCommunityBonus = 20.0
	maxEventBonus     = 15.0
	maxDensityBonus   = 10.0

	// trustDecayFactor shrinks a trust path's score per hop.
	trustDecayFactor = 0.7
)

// TrustPath is a discovered chain of accepted connections from the
// requester to a recommended user.
type TrustPath struct {
	UserID     string   `json:"user_id"`
	TrustScore float64  `json:"trust_score"`
	Path       []string `json:"path"`
}

// SocialGraphEngine derives proximity signals from connections,
// communities and events. All inputs are read-only collections; every
// traversal is bounded, so termination is guaranteed.
type SocialGraphEngine struct {
	now func() time.Time
}

func NewSocialGraphEngine() *SocialGraphEngine {
	return &SocialGraphEngine{now: time.Now}
}

func NewSocialGraphEngineWithClock(now func() time.Time) *SocialGraphEngine {
	return &SocialGraphEngine{now: now}
}

// SocialBonus sums four independently capped components: mutual
// connections, shared communities, shared events and combined network
// density. The total is capped at 50.
func (e *SocialGraphEngine) SocialBonus(
	user1ID, user2ID string,
	connections []*domain.Connection,
	communities []*domain.Community,
	events []*domain.Event,
) float64 {
	bonus := e.mutualConnectionsBonus(user1ID, user2ID, connections)
	bonus += e.communityBonus(user1ID, user2ID, communities)
	bonus += e.eventBonus(user1ID, user2ID, events)
	bonus += e.networkDensityBonus(user1ID, user2ID, connections)
	return math.Min(maxSocialBonus, bonus)
}

// MutualConnections returns the users connected (accepted) to both.
func (e *SocialGraphEngine) MutualConnections(
	user1ID, user2ID string,
	connections []*domain.Connection,
) []string {
	set1 := toSet(e.connectionsOf(user1ID, connections))
	var mutual []string
	for _, id := range e.connectionsOf(user2ID, connections) {
		if _, ok := set1[id]; ok {
			mutual = append(mutual, id)
		}
	}
	return mutual
}

// FriendsOfFriends expands the graph one hop beyond the user's direct
// connections, excluding the user and the first-degree circle.
func (e *SocialGraphEngine) FriendsOfFriends(
	userID string,
	connections []*domain.Connection,
) []string {
	direct := e.connectionsOf(userID, connections)
	directSet := toSet(direct)

	seen := make(map[string]struct{})
	var result []string
	for _, friendID := range direct {
		for _, fofID := range e.connectionsOf(friendID, connections) {
			if fofID == userID {
				continue
			}
			if _, ok := directSet[fofID]; ok {
				continue
			}
			if _, ok := seen[fofID]; ok {
				continue
			}
			seen[fofID] = struct{}{}
			result = append(result, fofID)
		}
	}
	return result
}

// CommunityMembers lists everyone sharing a community with the user.
func (e *SocialGraphEngine) CommunityMembers(
	userID string,
	communities []*domain.Community,
) []string {
	seen := make(map[string]struct{})
	var members []string
	for _, community := range communities {
		if !community.HasMember(userID) {
			continue
		}
		for _, memberID := range community.Members {
			if memberID == userID {
				continue
			}
			if _, ok := seen[memberID]; ok {
				continue
			}
			seen[memberID] = struct{}{}
			members = append(members, memberID)
		}
	}
	return members
}

// EventAttendees lists everyone who attended an event with the user.
func (e *SocialGraphEngine) EventAttendees(
	userID string,
	events []*domain.Event,
) []string {
	seen := make(map[string]struct{})
	var attendees []string
	for _, event := range events {
		if !event.HasAttendee(userID) {
			continue
		}
		for _, attendeeID := range event.Attendees {
			if attendeeID == userID {
				continue
			}
			if _, ok := seen[attendeeID]; ok {
				continue
			}
			seen[attendeeID] = struct{}{}
			attendees = append(attendees, attendeeID)
		}
	}
	return attendees
}

// TrustPathRecommendations finds second-degree candidates reachable
// within maxHops accepted connections and scores each shortest path
// with hop decay and connection-age stability.
func (e *SocialGraphEngine) TrustPathRecommendations(
	userID string,
	connections []*domain.Connection,
	maxHops int,
) []TrustPath {
	var recommendations []TrustPath
	for _, candidateID := range e.FriendsOfFriends(userID, connections) {
		path := e.shortestTrustPath(userID, candidateID, connections, maxHops)
		if len(path) == 0 || len(path) > maxHops {
			continue
		}
		recommendations = append(recommendations, TrustPath{
			UserID:     candidateID,
			TrustScore: e.trustScore(path, connections),
			Path:       path,
		})
	}

	sort.Slice(recommendations, func(i, j int) bool {
		return recommendations[i].TrustScore > recommendations[j].TrustScore
	})
	return recommendations
}

// InfluenceScore combines connection count, community leadership
// (explicit leader field only), organized events and community
// diversity, capped at 100.
func (e *SocialGraphEngine) InfluenceScore(
	userID string,
	connections []*domain.Connection,
	communities []*domain.Community,
	events []*domain.Event,
) float64 {
	score := math.Min(50, float64(len(e.connectionsOf(userID, connections)))*2)

	memberships := 0
	for _, community := range communities {
		if community.IsLeader(userID) {
			score += 15
		}
		if community.HasMember(userID) {
			memberships++
		}
	}

	for _, event := range events {
		if event.OrganizerID == userID {
			score += 10
		}
	}

	score += math.Min(20, float64(memberships)*5)

	return math.Min(100, score)
}

// NetworkDensity reports how interconnected a user's direct circle is,
// in [0,100].
func (e *SocialGraphEngine) NetworkDensity(
	userID string,
	connections []*domain.Connection,
) float64 {
	direct := e.connectionsOf(userID, connections)
	if len(direct) < 2 {
		return 0
	}
	directSet := toSet(direct)

	intraEdges := 0
	for _, conn := range connections {
		if !conn.IsAccepted() {
			continue
		}
		_, ok1 := directSet[conn.User1ID]
		_, ok2 := directSet[conn.User2ID]
		if ok1 && ok2 {
			intraEdges++
		}
	}

	maxPossible := float64(len(direct)*(len(direct)-1)) / 2
	return math.Min(100, float64(intraEdges)/maxPossible*100)
}

func (e *SocialGraphEngine) mutualConnectionsBonus(user1ID, user2ID string, connections []*domain.Connection) float64 {
	mutual := e.MutualConnections(user1ID, user2ID, connections)
	return math.Min(maxMutualBonus, float64(len(mutual))*5)
}

func (e *SocialGraphEngine) communityBonus(user1ID, user2ID string, communities []*domain.Community) float64 {
	var bonus float64
	sharedAffiliation := false
	for _, community := range communities {
		if !community.HasMember(user1ID) || !community.HasMember(user2ID) {
			continue
		}
		bonus += 8
		if len(community.Members) <= 20 {
			bonus += 5 // small circles imply closer acquaintance
		}
		if community.MosqueAffiliation != nil && *community.MosqueAffiliation != "" {
			sharedAffiliation = true
		}
	}
	if sharedAffiliation {
		bonus += 10
	}
	return math.Min(maxCommunityBonus, bonus)
}

func (e *SocialGraphEngine) eventBonus(user1ID, user2ID string, events []*domain.Event) float64 {
	sixMonthsAgo := e.now().AddDate(0, -6, 0)
	var bonus float64
	for _, event := range events {
		if !event.HasAttendee(user1ID) || !event.HasAttendee(user2ID) {
			continue
		}
		bonus += 3
		if event.StartDate.After(sixMonthsAgo) {
			bonus += 2
		}
	}
	return math.Min(maxEventBonus, bonus)
}

func (e *SocialGraphEngine) networkDensityBonus(user1ID, user2ID string, connections []*domain.Connection) float64 {
	union := toSet(e.connectionsOf(user1ID, connections))
	for _, id := range e.connectionsOf(user2ID, connections) {
		union[id] = struct{}{}
	}
	if len(union) < 2 {
		return 0
	}

	intraEdges := 0
	for _, conn := range connections {
		if !conn.IsAccepted() {
			continue
		}
		_, ok1 := union[conn.User1ID]
		_, ok2 := union[conn.User2ID]
		if ok1 && ok2 {
			intraEdges++
		}
	}

	maxPossible := float64(len(union)*(len(union)-1)) / 2
	density := float64(intraEdges) / maxPossible
	return math.Min(maxDensityBonus, density*50)
}

// connectionsOf returns the accepted peers of userID.
func (e *SocialGraphEngine) connectionsOf(userID string, connections []*domain.Connection) []string {
	var peers []string
	for _, conn := range connections {
		if !conn.IsAccepted() {
			continue
		}
		if peer, ok := conn.OtherUser(userID); ok {
			peers = append(peers, peer)
		}
	}
	return peers
}

// shortestTrustPath is a BFS over accepted connections bounded by
// maxHops; the returned path includes both endpoints.
func (e *SocialGraphEngine) shortestTrustPath(
	startID, targetID string,
	connections []*domain.Connection,
	maxHops int,
) []string {
	type node struct {
		userID string
		path   []string
	}

	queue := []node{{userID: startID, path: []string{startID}}}
	visited := map[string]struct{}{startID: {}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if len(current.path) > maxHops {
			continue
		}
		if current.userID == targetID {
			return current.path
		}

		for _, peerID := range e.connectionsOf(current.userID, connections) {
			if _, ok := visited[peerID]; ok {
				continue
			}
			visited[peerID] = struct{}{}
			next := append(append([]string(nil), current.path...), peerID)
			queue = append(queue, node{userID: peerID, path: next})
		}
	}

	return nil
}

// trustScore decays 100 by 0.7 per hop and rewards long-lived edges
// with a stability multiplier of up to 1.2 each.
func (e *SocialGraphEngine) trustScore(path []string, connections []*domain.Connection) float64 {
	if len(path) <= 1 {
		return 0
	}

	score := 100.0
	for i := 1; i < len(path); i++ {
		score *= trustDecayFactor
	}

	now := e.now()
	for i := 0; i < len(path)-1; i++ {
		conn := findConnection(path[i], path[i+1], connections)
		if conn == nil {
			continue
		}
		ageDays := now.Sub(conn.CreatedAt).Hours() / 24
		stability := math.Min(1.2, 1+(ageDays/365)*0.2)
		score *= stability
	}

	return math.Min(100, score)
}

func findConnection(user1ID, user2ID string, connections []*domain.Connection) *domain.Connection {
	for _, conn := range connections {
		if (conn.User1ID == user1ID && conn.User2ID == user2ID) ||
			(conn.User1ID == user2ID && conn.User2ID == user1ID) {
			return conn
		}
	}
	return nil
}
