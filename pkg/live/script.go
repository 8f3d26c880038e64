package live

import (
	"encoding/json"
	"strings"
)

// ClientScript returns the JavaScript that applies streamed patches in the
// browser. path is the hub's URL path. Register it as a raw body script:
//
//	client.RegisterRaw(head.Input{"script": []head.Attrs{{
//	    "innerHTML": live.ClientScript("/live"),
//	    "body":      true,
//	}}})
func ClientScript(path string) string {
	quoted, _ := json.Marshal(path)
	return strings.Replace(clientScript, "__PATH__", string(quoted), 1)
}

const clientScript = `(function() {
    'use strict';

    var owned = new Map();
    var reconnectDelay = 1000;
    var maxReconnectDelay = 30000;

    function root(target) {
        return target === 'body' ? document.body : document.documentElement;
    }

    function build(p) {
        var el = document.createElement(p.tag);
        write(el, p);
        return el;
    }

    function write(el, p) {
        Array.prototype.slice.call(el.attributes).forEach(function(a) {
            if (!p.attrs || !(a.name in p.attrs)) el.removeAttribute(a.name);
        });
        Object.keys(p.attrs || {}).forEach(function(k) {
            el.setAttribute(k, p.attrs[k]);
        });
        if (p.html) el.innerHTML = p.html;
        else if (p.tag !== 'meta' && p.tag !== 'link' && p.tag !== 'base') el.textContent = p.text || '';
    }

    function apply(p) {
        var el;
        switch (p.op) {
            case 'SetTitle':
                document.title = p.value || '';
                break;
            case 'SetAttr':
                root(p.target).setAttribute(p.key, p.value || '');
                break;
            case 'RemoveAttr':
                root(p.target).removeAttribute(p.key);
                break;
            case 'InsertTag':
                el = build(p);
                (p.parent === 'body' ? document.body : document.head).appendChild(el);
                owned.set(p.target, el);
                break;
            case 'UpdateTag':
                el = owned.get(p.target);
                if (el) {
                    write(el, p);
                } else {
                    apply({op: 'InsertTag', target: p.target, tag: p.tag, parent: p.parent, attrs: p.attrs, text: p.text, html: p.html});
                }
                break;
            case 'RemoveTag':
                el = owned.get(p.target);
                if (el) el.remove();
                owned.delete(p.target);
                break;
        }
    }

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(protocol + '//' + location.host + __PATH__);

        ws.onopen = function() {
            reconnectDelay = 1000;
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }
            if (msg.type === 'patches') {
                (msg.patches || []).forEach(apply);
            }
        };

        ws.onclose = function() {
            setTimeout(function() {
                reconnectDelay = Math.min(reconnectDelay * 2, maxReconnectDelay);
                connect();
            }, reconnectDelay);
        };

        ws.onerror = function() {
            ws.close();
        };
    }

    if (document.readyState === 'loading') {
        document.addEventListener('DOMContentLoaded', connect);
    } else {
        connect();
    }
})();
`
