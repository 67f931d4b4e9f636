package game

const (
	SimHz          = 60.0 // server tick rate
	UpdateRateHz   = 20.0 // per-client WS state pushes
	RoomMaxPlayers = 2

	PlayerOwnerPrefix = "player"

	Friction       = 0.88
	PlayerAccel    = 0.9
	PlayerMaxSpeed = 6.0
	PlayerMaxHP    = 100.0
	PlayerRadius   = 14.0

	CellSize          = 250.0 // terrain grid cell, map units
	ObstacleQueryW    = 300.0
	ObstacleQueryH    = 300.0
	TreeDamping       = 0.8
	BuildingDamping   = 0.5
	BuildingThreshold = 0.85
	TreeThreshold     = 0.3

	WalkerBaseSpeed  = 0.35
	ShooterBaseSpeed = 0.25
	BossBaseSpeed    = 0.2
	ShooterKiteRange = 300.0
	ShooterFireRange = 550.0
	FlockMargin      = 20.0
	FlockScale       = 0.8
	EnemyRadius      = 16.0
	WalkerBaseHP     = 40.0
	ShooterBaseHP    = 25.0
	ContactCooldown  = 45

	EnemySpawnInterval   = 120
	CrystalSpawnInterval = 60
	CrateSpawnInterval   = 300
	MaxEnemies           = 30
	MaxCrystals          = 15
	MaxCrates            = 5
	EnemySpawnMinDist    = 800.0
	EnemySpawnMaxDist    = 1000.0
	CrystalSpawnMinDist  = 400.0
	CrystalSpawnMaxDist  = 2000.0
	CrateSpawnMinDist    = 300.0
	CrateSpawnMaxDist    = 1300.0

	CrateHP        = 30.0
	CrystalRadius  = 10.0
	CrateRadius    = 18.0
	PickupRadius   = 12.0
	PickupLifetime = 1800 // ticks before an unclaimed pickup despawns

	CrystalScore = 25
	WalkerScore  = 50
	ShooterScore = 75
	BossScore    = 1000

	BossAttackCooldown = 120
	BossRadialShots    = 16
	HomingRange        = 600.0
	HomingTurnRate     = 0.15

	CameraLag = 0.1
)
