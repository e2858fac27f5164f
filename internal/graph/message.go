package graph

// Kind tags the variant carried by a Message.
type Kind uint8

const (
	KindNodeRecord Kind = iota + 1
	KindClaim
	KindLinkUpdate
	KindMergeInstruction
)

func (k Kind) String() string {
	switch k {
	case KindNodeRecord:
		return "node-record"
	case KindClaim:
		return "unique-predecessor-claim"
	case KindLinkUpdate:
		return "link-update"
	case KindMergeInstruction:
		return "merge-instruction"
	}
	return "unknown"
}

// Claim tells its key "I am the unique predecessor of one of your strands":
// node FromID has exactly one outgoing edge on Strand, and it points at the key.
// Rival is FromID's unique neighbour over the complement of Strand, if any:
// the only other node that could merge into FromID in the same round.
type Claim struct {
	FromID string
	Strand Strand
	Rival  string
}

// LinkUpdate asks its key to rewrite every outgoing reference to Old into New.
type LinkUpdate struct {
	Old Terminal
	New Terminal
}

// MergeInstruction carries the source node to its target. The source merges
// over its outgoing edge on Strand into the target's TargetStrand.
type MergeInstruction struct {
	SourceID     string
	TargetID     string
	Strand       Strand
	TargetStrand Strand
	Source       Node
}

// Message is the unit exchanged between map and reduce. Exactly one payload
// field is meaningful, selected by Kind.
type Message struct {
	Key  string
	Kind Kind

	Node   *Node
	Claim  Claim
	Update LinkUpdate
	Merge  *MergeInstruction
}

func NodeRecord(n Node) Message {
	return Message{Key: n.ID, Kind: KindNodeRecord, Node: &n}
}

func ClaimMessage(to string, c Claim) Message {
	return Message{Key: to, Kind: KindClaim, Claim: c}
}

func UpdateMessage(to string, u LinkUpdate) Message {
	return Message{Key: to, Kind: KindLinkUpdate, Update: u}
}

func MergeMessage(m MergeInstruction) Message {
	return Message{Key: m.TargetID, Kind: KindMergeInstruction, Merge: &m}
}

// Group is every message addressed to one key in one stage, split by kind.
type Group struct {
	Key     string
	Records []Node
	Claims  []Claim
	Updates []LinkUpdate
	Merges  []MergeInstruction
}

// Add files m under its kind.
func (g *Group) Add(m Message) error {
	switch m.Kind {
	case KindNodeRecord:
		if m.Node == nil {
			return &UnknownControlMessage{Key: m.Key, Kind: m.Kind}
		}
		g.Records = append(g.Records, *m.Node)
	case KindClaim:
		g.Claims = append(g.Claims, m.Claim)
	case KindLinkUpdate:
		g.Updates = append(g.Updates, m.Update)
	case KindMergeInstruction:
		if m.Merge == nil {
			return &UnknownControlMessage{Key: m.Key, Kind: m.Kind}
		}
		g.Merges = append(g.Merges, *m.Merge)
	default:
		return &UnknownControlMessage{Key: m.Key, Kind: m.Kind}
	}
	return nil
}

// Record returns the group's single node record. A group holding only
// messages addressed to an absent node yields MissingNeighborError; more than
// one record yields DataIntegrityError.
func (g *Group) Record() (Node, error) {
	switch len(g.Records) {
	case 1:
		return g.Records[0], nil
	case 0:
		switch {
		case len(g.Claims) > 0:
			return Node{}, &MissingNeighborError{NodeID: g.Key, Referrer: g.Claims[0].FromID, Kind: KindClaim}
		case len(g.Merges) > 0:
			return Node{}, &MissingNeighborError{NodeID: g.Key, Referrer: g.Merges[0].SourceID, Kind: KindMergeInstruction}
		case len(g.Updates) > 0:
			return Node{}, &MissingNeighborError{NodeID: g.Key, Referrer: g.Updates[0].Old.NodeID, Kind: KindLinkUpdate}
		}
	}
	return Node{}, &DataIntegrityError{NodeID: g.Key, Records: len(g.Records)}
}
