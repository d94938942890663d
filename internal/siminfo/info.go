package siminfo

import (
	"log"

	"siminfod/internal/domain"
	"siminfod/internal/metrics"
	"siminfod/internal/storage"
	"siminfod/internal/telephony"
)

// Info reconciles the SIM identity of one slot. See the package
// documentation for the merge and notification semantics.
type Info struct {
	path  string
	watch telephony.Watch
	store storage.Store

	iccid      string
	imsi       string
	networkSPN string // SPN reported live by the network/subscription data
	cachedSPN  string // SPN recovered from or written to the per-IMSI cache
	defaultSPN string // MCC+MNC fallback, set only while the SIM is ready
	publicSPN  string

	// Dirty flags for the two stores. They stay set across failed
	// writes so the next change retries.
	pendingCacheWrite bool
	pendingMapWrite   bool

	queued   [kindCount]bool
	obs      observers
	watchIDs []telephony.Handle
}

// New creates an Info bound to one slot, primes it with the watch's
// current observations and the persistent cache, and subscribes to
// further changes. Priming never produces notifications: observers
// attached afterwards only hear about genuine changes.
func New(watch telephony.Watch, store storage.Store) *Info {
	info := &Info{
		path:  watch.Path(),
		watch: watch,
		store: store,
	}

	info.watchIDs = []telephony.Handle{
		watch.AddHandler(telephony.EventICCID, info.onICCIDChanged),
		watch.AddHandler(telephony.EventIMSI, info.onIMSIChanged),
		watch.AddHandler(telephony.EventSPN, info.onSPNChanged),
		watch.AddHandler(telephony.EventSIMState, info.onSIMStateChanged),
		watch.AddHandler(telephony.EventRegistration, info.onRegistrationChanged),
	}

	info.setICCID(watch.ICCID())
	info.updateIMSI()
	info.updateNetworkSPN()
	info.networkCheck()
	info.queued = [kindCount]bool{}

	return info
}

// Close detaches the Info from its watch. The owning context calls this
// exactly once; the Info must not be used afterwards.
func (i *Info) Close() {
	for _, id := range i.watchIDs {
		i.watch.RemoveHandler(id)
	}
	i.watchIDs = nil
}

// Path returns the slot path this Info is bound to
func (i *Info) Path() string { return i.path }

// ICCID returns the current card identifier, "" when no card is present
func (i *Info) ICCID() string { return i.iccid }

// IMSI returns the current subscriber identifier, possibly recovered
// from the cache before the telephony stack reported it
func (i *Info) IMSI() string { return i.imsi }

// SPN returns the public service provider name: the live network SPN if
// known, else the cached one, else the MCC+MNC fallback, else ""
func (i *Info) SPN() string { return i.publicSPN }

// AddICCIDChangedHandler registers a callback for card identifier changes
func (i *Info) AddICCIDChangedHandler(fn func(*Info)) Handle {
	return i.obs.add(ICCIDChanged, fn)
}

// AddIMSIChangedHandler registers a callback for subscriber identifier changes
func (i *Info) AddIMSIChangedHandler(fn func(*Info)) Handle {
	return i.obs.add(IMSIChanged, fn)
}

// AddSPNChangedHandler registers a callback for public SPN changes
func (i *Info) AddSPNChangedHandler(fn func(*Info)) Handle {
	return i.obs.add(SPNChanged, fn)
}

// RemoveHandler unregisters a callback by its handle
func (i *Info) RemoveHandler(h Handle) {
	i.obs.remove(h)
}

// Watch event entry points. Each applies one observation and then
// flushes the coalesced notifications exactly once.

func (i *Info) onICCIDChanged() {
	i.setICCID(i.watch.ICCID())
	i.flush()
}

func (i *Info) onIMSIChanged() {
	i.updateIMSI()
	i.flush()
}

func (i *Info) onSPNChanged() {
	i.updateNetworkSPN()
	i.flush()
}

func (i *Info) onSIMStateChanged() {
	i.updateDefaultSPN()
	i.networkCheck()
	i.flush()
}

func (i *Info) onRegistrationChanged() {
	i.networkCheck()
	i.flush()
}

func (i *Info) queue(kind ChangeKind) {
	i.queued[kind] = true
}

// flush emits one notification per queued kind, in fixed order, then
// clears the queue. It runs once per externally triggered update, never
// mid-update, so observers see consistent state.
func (i *Info) flush() {
	for kind := ChangeKind(0); kind < kindCount; kind++ {
		if i.queued[kind] {
			i.queued[kind] = false
			metrics.NotificationsTotal.WithLabelValues(kind.String()).Inc()
			i.obs.notify(kind, i)
		}
	}
}

// setICCID applies a card identifier change. A present value triggers a
// cache load; an absent one (card removed) clears all identity state.
func (i *Info) setICCID(iccid string) {
	if i.iccid == iccid {
		return
	}
	i.iccid = iccid
	i.queue(ICCIDChanged)

	if iccid != "" {
		i.loadCache()
		return
	}

	log.Printf("%s: no more iccid", i.path)
	if i.imsi != "" {
		i.imsi = ""
		i.queue(IMSIChanged)
	}
	i.networkSPN = ""
	i.cachedSPN = ""
	i.defaultSPN = ""
	i.updatePublicSPN()
}

// loadCache seeds IMSI and SPN from the persistent stores after a card
// identifier became known. A recovered IMSI that contradicts the live
// one wins and schedules a rewrite of the per-IMSI cache.
func (i *Info) loadCache() {
	if i.iccid != "" {
		imsi, err := i.store.IMSI(i.iccid)
		switch {
		case err != nil:
			log.Printf("%s: iccid map read failed: %v", i.path, err)
		case imsi != "" && imsi != i.imsi:
			if i.imsi != "" {
				log.Printf("%s: imsi changed %s -> %s", i.path, i.imsi, imsi)
				i.pendingCacheWrite = true
			}
			i.imsi = imsi
			log.Printf("%s: imsi[%s] = %s", i.path, i.iccid, imsi)
			i.writeICCIDMap()
			i.updateDefaultSPN()
			i.queue(IMSIChanged)
		case imsi == "":
			log.Printf("%s: no imsi for iccid %s", i.path, i.iccid)
		}
	}

	if i.imsi != "" {
		spn, err := i.store.SPN(i.imsi)
		switch {
		case err != nil:
			log.Printf("%s: spn cache read failed: %v", i.path, err)
		case spn != "" && spn != i.cachedSPN:
			if i.cachedSPN != "" {
				log.Printf("%s: spn changing %q -> %q", i.path, i.cachedSPN, spn)
				i.pendingCacheWrite = true
			}
			i.cachedSPN = spn
			log.Printf("%s: spn[%s] = %q", i.path, i.imsi, spn)
			i.writeIMSICache()
			i.updatePublicSPN()
		case spn == "":
			log.Printf("%s: no spn for imsi %s", i.path, i.imsi)
		}
	}
}

// updateIMSI applies the watch's reported IMSI. An empty report carries
// no information and never clears a known IMSI; clearing happens only
// through card removal.
func (i *Info) updateIMSI() {
	reported := i.watch.IMSI()
	if reported != "" && reported != i.imsi {
		log.Printf("%s: imsi %s", i.path, reported)
		i.imsi = reported
		i.pendingMapWrite = true
		i.writeICCIDMap()
		i.writeIMSICache()
		i.queue(IMSIChanged)
	}

	// MCC/MNC may have become readable along with the IMSI
	i.updateDefaultSPN()
}

// updateNetworkSPN applies the watch's reported SPN; empty reports are
// ignored
func (i *Info) updateNetworkSPN() {
	if spn := i.watch.SPN(); spn != "" {
		i.setNetworkSPN(spn)
	}
}

// setNetworkSPN records a live network SPN. It is authoritative, so it
// also becomes the cached SPN and is persisted.
func (i *Info) setNetworkSPN(spn string) {
	if i.networkSPN == spn {
		return
	}
	log.Printf("%s: network spn %q", i.path, spn)
	i.networkSPN = spn
	i.pendingCacheWrite = true
	i.setCachedSPN(spn)
	i.writeIMSICache()
	i.updatePublicSPN()
}

// setCachedSPN adopts a cached-SPN candidate and schedules its
// persistence
func (i *Info) setCachedSPN(spn string) {
	if i.cachedSPN == spn {
		return
	}
	i.cachedSPN = spn
	i.pendingCacheWrite = true
	i.writeIMSICache()
	i.updatePublicSPN()
}

// updateDefaultSPN recomputes the MCC+MNC fallback name. It depends only
// on the active SIM's readiness and home network codes.
func (i *Info) updateDefaultSPN() {
	var def string
	if i.watch.SIMState().Ready() {
		mcc, mnc := i.watch.MCC(), i.watch.MNC()
		if mcc != "" && mnc != "" {
			def = mcc + mnc
			if len(def) > domain.DefaultSPNLength {
				def = def[:domain.DefaultSPNLength]
			}
		}
	}

	if def != i.defaultSPN {
		i.defaultSPN = def
		log.Printf("%s: default spn %q", i.path, def)
		i.updatePublicSPN()
	}
}

// updatePublicSPN recomputes the externally visible SPN by precedence:
// network > cached > default > absent
func (i *Info) updatePublicSPN() {
	spn := i.networkSPN
	if spn == "" {
		spn = i.cachedSPN
	}
	if spn == "" {
		spn = i.defaultSPN
	}

	if i.publicSPN != spn {
		i.publicSPN = spn
		if spn != "" {
			log.Printf("%s: public spn %q", i.path, spn)
		} else {
			log.Printf("%s: no public spn", i.path)
		}
		i.queue(SPNChanged)
	}
}

// networkCheck infers the home network operator name as the provider
// name. It applies only when the SIM is ready, the modem is registered
// or roaming on the SIM's own network, and a non-empty operator name is
// known. A live network SPN always wins over the inferred name.
func (i *Info) networkCheck() {
	if !i.watch.SIMState().Ready() {
		return
	}
	reg := i.watch.Registration()
	if !reg.Status.Registered() || reg.OperatorName == "" {
		return
	}
	if !reg.HomeNetwork(i.watch.MCC(), i.watch.MNC()) {
		return
	}

	log.Printf("%s: home network %q", i.path, reg.OperatorName)
	if i.networkSPN == "" {
		i.setCachedSPN(reg.OperatorName)
	}
}

// writeIMSICache flushes the cached SPN to the per-IMSI store if a write
// is pending, both IMSI and SPN are known, and the stored value differs.
// On failure the pending flag survives and the write retries on the next
// change.
func (i *Info) writeIMSICache() {
	if !i.pendingCacheWrite || i.imsi == "" || i.cachedSPN == "" {
		return
	}

	stored, err := i.store.SPN(i.imsi)
	if err != nil {
		log.Printf("%s: spn cache read failed: %v", i.path, err)
		return
	}
	if stored != i.cachedSPN {
		if err := i.store.SetSPN(i.imsi, i.cachedSPN); err != nil {
			log.Printf("%s: spn cache write failed: %v", i.path, err)
			return
		}
		log.Printf("%s: cached spn %q for %s", i.path, i.cachedSPN, i.imsi)
	} else {
		metrics.StoreWriteSkips.Inc()
	}
	i.pendingCacheWrite = false
}

// writeICCIDMap flushes the ICCID-to-IMSI association if a write is
// pending, both identifiers are known, and the stored value differs
func (i *Info) writeICCIDMap() {
	if !i.pendingMapWrite || i.iccid == "" || i.imsi == "" {
		return
	}

	stored, err := i.store.IMSI(i.iccid)
	if err != nil {
		log.Printf("%s: iccid map read failed: %v", i.path, err)
		return
	}
	if stored != i.imsi {
		if err := i.store.SetIMSI(i.iccid, i.imsi); err != nil {
			log.Printf("%s: iccid map write failed: %v", i.path, err)
			return
		}
		log.Printf("%s: mapped %s -> %s", i.path, i.iccid, i.imsi)
	} else {
		metrics.StoreWriteSkips.Inc()
	}
	i.pendingMapWrite = false
}
