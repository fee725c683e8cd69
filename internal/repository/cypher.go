package repository

// One id per node; the constraints prevent duplicates under concurrent MERGEs.
var constraintStatements = []string{
	"CREATE CONSTRAINT user_id IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE",
	"CREATE CONSTRAINT merch_id IF NOT EXISTS FOR (m:Merchant) REQUIRE m.id IS UNIQUE",
	"CREATE CONSTRAINT device_id IF NOT EXISTS FOR (d:Device) REQUIRE d.id IS UNIQUE",
	"CREATE CONSTRAINT loc_id IF NOT EXISTS FOR (l:Location) REQUIRE l.id IS UNIQUE",
	"CREATE CONSTRAINT phone_id IF NOT EXISTS FOR (p:Phone) REQUIRE p.id IS UNIQUE",
	"CREATE CONSTRAINT email_id IF NOT EXISTS FOR (e:Email) REQUIRE e.id IS UNIQUE",
}

const awaitIndexesCypher = "CALL db.awaitIndexes()"

// The receiver is merged without a fixed label first and defaults to :User on
// creation; when the row declares a merchant the labels are flipped once.
// Re-applying the flip to an already-Merchant node is a no-op, and nothing
// ever restores :User. The TRANSACTS_WITH edge is keyed by txid with
// create-only properties.
const loadBatchCypher = `
UNWIND $rows AS r

MERGE (s:User {id: r.sender_id})

MERGE (t {id: r.receiver_id})
  ON CREATE SET t:User
FOREACH (_ IN CASE WHEN r.receiver_type = 'merchant' THEN [1] ELSE [] END |
    SET t:Merchant REMOVE t:User
)

MERGE (d:Device {id: r.sender_device_id})
MERGE (s)-[:USES_DEVICE]->(d)

MERGE (l:Location {id: r.sender_location})
MERGE (s)-[:LOCATED_IN]->(l)

MERGE (p:Phone {id: r.sender_phone})
MERGE (s)-[:HAS_PHONE]->(p)

MERGE (e:Email {id: r.sender_email})
MERGE (s)-[:HAS_EMAIL]->(e)

MERGE (s)-[x:TRANSACTS_WITH {txid: r.transaction_id}]->(t)
  ON CREATE SET
    x.amount    = toFloat(r.amount),
    x.timestamp = r.timestamp,
    x.label     = toInteger(r.label)
`

const coUsersCypher = `
MATCH (u:User)-[:USES_DEVICE]->(d:Device)<-[:USES_DEVICE]-(v:User)
WHERE u <> v
WITH u, count(DISTINCT v) AS coUsers
SET u.coUsers = coUsers
`

const userFeaturesCypher = `
MATCH (u:User)
RETURN
  u.id                        AS user,
  coalesce(u.degree, 0)       AS degree,
  coalesce(u.triangles, 0)    AS triangles,
  coalesce(u.community, -1)   AS community,
  coalesce(u.pr, 0.0)         AS pr,
  coalesce(u.coUsers, 0)      AS coUsers
`

const writeRiskFlagsCypher = `
UNWIND $rows AS r
MATCH (u:User {id: r.user})
SET u.suspicious = r.suspicious,
    u.highRisk   = r.highRisk
`

const flaggedUsersCypher = `
MATCH (u:User)
WHERE u.suspicious = true OR u.highRisk = true
RETURN
  u.id                        AS user,
  coalesce(u.highRisk, false) AS highRisk,
  coalesce(u.coUsers, 0)      AS coUsers,
  coalesce(u.pr, 0.0)         AS pr,
  coalesce(u.degree, 0)       AS degree,
  coalesce(u.triangles, 0)    AS triangles,
  coalesce(u.community, -1)   AS community
ORDER BY user
`

const countNodesCypher = `
MATCH (n)
RETURN count(n) AS total
`
