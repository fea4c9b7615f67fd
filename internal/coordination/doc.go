// Package coordination handles multi-instance concerns over Redis: the
// cross-instance event relay and the instance heartbeat registry. Both are
// optional; a single instance runs fine without Redis.
package coordination
