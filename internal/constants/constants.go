package constants

import "time"

// authoritative re-fetch when nothing else has asked for one
const MainUpdateInterval = time.Minute

// slider input is collapsed into one command per window
const DebounceWindow = 300 * time.Millisecond

// wait after a drag is released before trusting the bridge again,
// longer than the debounce window plus one round trip
const SettleDelay = 800 * time.Millisecond

const CommandTimeout = 5 * time.Second

// room members that are on and differ by more than this are shown as mixed (~4%)
const MixedBrightnessTolerance = 10

// bridge transition time in 100ms steps
const DefaultTransitionTime = 4

const BridgeRequestsPerSecond = 10
const EventBatchWindow = 250 * time.Millisecond
const DiscoveryTimeout = 5 * time.Second

// bridge events
const EventBatchTypeUpdate = "update"
const EventTypeLight = "light"
const EventTypeGroupedLight = "grouped_light"
const EventTypeRoom = "room"
const EventTypeZone = "zone"
const EventTypeZigbeeConnectivity = "zigbee_connectivity"
