package chrome

import (
	"encoding/json"
	"fmt"
)

// bindingName is the page global the injected script reports through.
const bindingName = "__tabshellEmit"

// pageMessage is the envelope the injected script sends through the binding.
type pageMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// pageScript runs in every new document before its own scripts. It reports
// title, favicon, hover, media, zoom gesture, focus and window.close events
// and exposes the find, mute and zoom helpers the surface calls.
const pageScript = `(() => {
  if (window.__tabshell) return;
  const emit = (type, payload) => {
    try { window.` + bindingName + `(JSON.stringify({type, payload})); } catch (e) {}
  };
  const state = {muted: false, find: null, zoom: 1};
  window.__tabshell = state;

  let lastTitle = null;
  const sendTitle = () => {
    if (document.title !== lastTitle) {
      lastTitle = document.title;
      emit('title', {title: document.title});
    }
  };
  let lastIcons = '';
  const sendIcons = () => {
    let icons = Array.from(document.querySelectorAll('link[rel~="icon"]')).map(l => l.href).filter(Boolean);
    if (icons.length === 0 && /^https?:$/.test(location.protocol)) {
      icons = [new URL('/favicon.ico', location.href).href];
    }
    const key = icons.join('\n');
    if (key !== lastIcons) {
      lastIcons = key;
      emit('favicons', icons);
    }
  };
  const observe = () => {
    sendTitle();
    sendIcons();
    new MutationObserver(() => { sendTitle(); sendIcons(); })
      .observe(document.documentElement, {subtree: true, childList: true, characterData: true, attributes: true, attributeFilter: ['href', 'rel']});
  };
  if (document.readyState === 'loading') {
    document.addEventListener('DOMContentLoaded', observe, {once: true});
  } else {
    observe();
  }

  let hovered = '';
  document.addEventListener('mouseover', e => {
    const a = e.target && e.target.closest ? e.target.closest('a[href]') : null;
    const url = a ? a.href : '';
    if (url !== hovered) {
      hovered = url;
      emit('hover', {url});
    }
  }, true);

  const playing = new Set();
  document.addEventListener('play', e => {
    playing.add(e.target);
    if (state.muted) e.target.muted = true;
    emit('media', {playing: true});
  }, true);
  const stopped = e => {
    playing.delete(e.target);
    emit('media', {playing: playing.size > 0});
  };
  document.addEventListener('pause', stopped, true);
  document.addEventListener('ended', stopped, true);

  window.addEventListener('wheel', e => {
    if (!e.ctrlKey) return;
    e.preventDefault();
    emit('zoom', {direction: e.deltaY < 0 ? 'in' : 'out'});
  }, {passive: false, capture: true});
  window.addEventListener('focus', () => emit('focus', {}));
  window.close = () => emit('close', {});

  window.__tabshellMute = muted => {
    state.muted = muted;
    document.querySelectorAll('audio,video').forEach(m => { m.muted = muted; });
  };
  window.__tabshellZoom = factor => {
    state.zoom = factor;
    document.documentElement.style.zoom = String(factor);
  };
  window.__tabshellFind = (text, forward, findNext) => {
    if (!findNext || !state.find || state.find.text !== text) {
      const body = document.body ? document.body.innerText.toLowerCase() : '';
      const needle = text.toLowerCase();
      let matches = 0;
      for (let i = needle ? body.indexOf(needle) : -1; i !== -1; i = body.indexOf(needle, i + needle.length)) matches++;
      state.find = {text, matches, active: 0};
      const sel = window.getSelection();
      if (sel) sel.removeAllRanges();
    }
    const f = state.find;
    if (f.matches > 0) {
      window.find(text, false, !forward, true);
      f.active = forward ? (f.active % f.matches) + 1 : (f.active <= 1 ? f.matches : f.active - 1);
    }
    emit('found', {activeMatchOrdinal: f.active, matches: f.matches});
  };
  window.__tabshellStopFind = () => {
    state.find = null;
    const sel = window.getSelection();
    if (sel) sel.removeAllRanges();
  };
})();`

// beforeUnloadScript fires a cancelable beforeunload event and reports
// whether any listener or the legacy handler asked to stay on the page.
const beforeUnloadScript = `(() => {
  const ev = new Event('beforeunload', {cancelable: true});
  let veto = false;
  const legacy = window.onbeforeunload;
  if (typeof legacy === 'function') {
    window.onbeforeunload = null;
    try {
      const r = legacy.call(window, ev);
      if (r !== undefined && r !== null && r !== false) veto = true;
    } finally {
      window.onbeforeunload = legacy;
    }
  }
  window.dispatchEvent(ev);
  return veto || ev.defaultPrevented;
})()`

// callHelper builds a call to one of the injected helpers. Helpers are
// missing on documents that predate injection, so the call is guarded.
func callHelper(name string, args ...any) (string, error) {
	encoded, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("encode %s args: %w", name, err)
	}
	return fmt.Sprintf("(() => { const f = window.%s; if (typeof f === 'function') f(...%s); })()", name, encoded), nil
}
