/*
Package ports defines the driven ports of the dispatcher.

These interfaces decouple dispatch from the backends that record and
coordinate it, so the same dispatcher runs in a single process or across
replicas.

# Key Interfaces

  - Journal: Records one entry per dispatched call.
  - DistributedLocker: Serializes calls that spend from the agent wallet.
*/
package ports
