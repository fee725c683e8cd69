package synth

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/kelvinosei/momograph/internal/domain"
)

// Synthesizer enriches anonymized transaction records with shared attributes
// so that the loaded graph carries a detectable collusion signal: devices,
// phones, and emails are shared across small groups of senders, a fraction of
// receivers become merchants, and every sender gets a location from a fixed
// pool.
//
// Each attribute family starts from a freshly seeded generator, so family
// outcomes are independent of each other while the whole run stays
// reproducible from one seed.
type Synthesizer struct {
	cfg Config
}

// New returns a configured Synthesizer, falling back to defaults for
// unset fields.
func New(cfg Config) *Synthesizer {
	def := DefaultConfig()
	if cfg.StartDate.IsZero() {
		cfg.StartDate = def.StartDate
	}
	if cfg.DeviceShareRate <= 0 {
		cfg.DeviceShareRate = def.DeviceShareRate
	}
	if cfg.DeviceMinGroup < 2 {
		cfg.DeviceMinGroup = def.DeviceMinGroup
	}
	if cfg.DeviceMaxGroup < cfg.DeviceMinGroup {
		cfg.DeviceMaxGroup = def.DeviceMaxGroup
	}
	if cfg.ContactShareRate <= 0 {
		cfg.ContactShareRate = def.ContactShareRate
	}
	if cfg.ContactMinGroup < 2 {
		cfg.ContactMinGroup = def.ContactMinGroup
	}
	if cfg.ContactMaxGroup < cfg.ContactMinGroup {
		cfg.ContactMaxGroup = def.ContactMaxGroup
	}
	if cfg.MerchantRate <= 0 {
		cfg.MerchantRate = def.MerchantRate
	}
	if cfg.LocationCount <= 0 {
		cfg.LocationCount = def.LocationCount
	}
	return &Synthesizer{cfg: cfg}
}

// Enrich assigns devices, merchant roles, locations, phones, and emails to
// the provided records. Row count and ordering are preserved.
func (s *Synthesizer) Enrich(records []domain.Record) []domain.Record {
	senders := distinctSenders(records)
	receivers := distinctReceivers(records)

	devices := s.assignDevices(senders)
	merchants := s.assignMerchants(receivers)
	locations, phones, emails := s.assignLocationsAndContacts(senders)

	out := make([]domain.Record, len(records))
	for i, r := range records {
		r.DeviceID = devices[r.SenderID]
		r.Location = locations[r.SenderID]
		r.Phone = phones[r.SenderID]
		r.Email = emails[r.SenderID]
		if _, ok := merchants[r.ReceiverID]; ok {
			r.ReceiverType = domain.ReceiverTypeMerchant
		} else {
			r.ReceiverType = domain.ReceiverTypeUser
		}
		out[i] = r
	}
	return out
}

// assignDevices gives every sender a unique device, then overwrites random
// contiguous groups of the shuffled sender list with one shared device each.
func (s *Synthesizer) assignDevices(senders []string) map[string]string {
	rng := s.newRand()

	devices := make(map[string]string, len(senders))
	for _, sender := range senders {
		devices[sender] = s.randomDeviceID(rng)
	}

	s.shareWalk(rng, senders, s.cfg.DeviceShareRate, s.cfg.DeviceMinGroup, s.cfg.DeviceMaxGroup, func(group []string) {
		shared := s.randomDeviceID(rng)
		for _, sender := range group {
			devices[sender] = shared
		}
	})

	return devices
}

// assignMerchants marks a fixed-size random sample of the receiver universe
// as merchants: round(count*rate), at least one whenever receivers exist.
func (s *Synthesizer) assignMerchants(receivers []string) map[string]struct{} {
	merchants := make(map[string]struct{})
	if len(receivers) == 0 {
		return merchants
	}

	rng := s.newRand()
	count := int(math.Round(float64(len(receivers)) * s.cfg.MerchantRate))
	if count < 1 {
		count = 1
	}
	if count > len(receivers) {
		count = len(receivers)
	}

	for _, idx := range rng.Perm(len(receivers))[:count] {
		merchants[receivers[idx]] = struct{}{}
	}
	return merchants
}

// assignLocationsAndContacts draws each sender's location from a fixed pool
// and assigns phones and emails with the same contiguous-group sharing model
// as devices. Phone and email sharing groups coincide: colluding identities
// tend to reuse both.
func (s *Synthesizer) assignLocationsAndContacts(senders []string) (locations, phones, emails map[string]string) {
	rng := s.newRand()

	pool := make([]string, s.cfg.LocationCount)
	for i := range pool {
		pool[i] = fmt.Sprintf("L%03d", i+1)
	}

	locations = make(map[string]string, len(senders))
	phones = make(map[string]string, len(senders))
	emails = make(map[string]string, len(senders))
	for _, sender := range senders {
		locations[sender] = pool[rng.Intn(len(pool))]
		phones[sender] = s.randomPhone(rng)
		emails[sender] = fmt.Sprintf("user%04d@mail.com", rng.Intn(9000)+1000)
	}

	s.shareWalk(rng, senders, s.cfg.ContactShareRate, s.cfg.ContactMinGroup, s.cfg.ContactMaxGroup, func(group []string) {
		sharedPhone := s.randomPhone(rng)
		sharedEmail := fmt.Sprintf("fraud%04d@mail.com", rng.Intn(9000)+1000)
		for _, sender := range group {
			phones[sender] = sharedPhone
			emails[sender] = sharedEmail
		}
	})

	return locations, phones, emails
}

// shareWalk shuffles a copy of identities and walks it with a cursor. Each
// step draws a Bernoulli trial with the given rate; on success a group of
// uniform random size within [minGroup,maxGroup] is consumed and handed to
// apply, otherwise the cursor advances by one and the identity keeps its
// unique value. A drawn group with fewer than two remaining identities
// abandons sharing for the rest of the pass: a group of one is not shared.
func (s *Synthesizer) shareWalk(rng *rand.Rand, identities []string, rate float64, minGroup, maxGroup int, apply func(group []string)) {
	shuffled := append([]string(nil), identities...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	i := 0
	for i < len(shuffled) {
		if rng.Float64() >= rate {
			i++
			continue
		}
		k := minGroup + rng.Intn(maxGroup-minGroup+1)
		end := i + k
		if end > len(shuffled) {
			end = len(shuffled)
		}
		group := shuffled[i:end]
		if len(group) < 2 {
			break
		}
		apply(group)
		i += k
	}
}

func (s *Synthesizer) newRand() *rand.Rand {
	return rand.New(rand.NewSource(s.cfg.Seed))
}

func (s *Synthesizer) randomDeviceID(rng *rand.Rand) string {
	return fmt.Sprintf("D%06d", rng.Intn(900_000)+100_000)
}

func (s *Synthesizer) randomPhone(rng *rand.Rand) string {
	return fmt.Sprintf("P%06d", rng.Intn(900_000)+100_000)
}

func distinctSenders(records []domain.Record) []string {
	return distinct(records, func(r domain.Record) string { return r.SenderID })
}

func distinctReceivers(records []domain.Record) []string {
	return distinct(records, func(r domain.Record) string { return r.ReceiverID })
}

// distinct preserves first-seen order so results only depend on the input,
// not map iteration.
func distinct(records []domain.Record, key func(domain.Record) string) []string {
	seen := make(map[string]struct{}, len(records))
	var values []string
	for _, r := range records {
		k := key(r)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		values = append(values, k)
	}
	return values
}
