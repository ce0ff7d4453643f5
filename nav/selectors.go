package nav

// Affordance selectors for the network's web interface, kept in one
// place because the markup drifts with site releases.
const SelectorMessageButton = "button[aria-label*='Message']"
const SelectorConnectButton = "button[aria-label*='Connect']"
const SelectorPendingButton = "button[aria-label*='Pending']"

const SelectorMessageComposer = "div.msg-form__contenteditable"
const SelectorMessageSendButton = "button.msg-form__send-button"
const SelectorMessageSentReceipt = "div.msg-s-event-listitem"

const SelectorAddNoteButton = "button[aria-label='Add a note']"
const SelectorNoteTextarea = "textarea[name='message']"
const SelectorSendInviteButton = "button[aria-label*='Send']"

const SelectorShareBoxTrigger = "button.share-box-feed-entry__trigger"
const SelectorPostEditor = "div.ql-editor[contenteditable='true']"
const SelectorMediaInput = "input[type='file']"
const SelectorPostButton = "button.share-actions__primary-action"
const SelectorPostSuccessToast = "div.artdeco-toast-item--success"

const SelectorAuthenticatedNav = "nav.global-nav"

const FeedPath = "/feed/"
const ProfilePathPrefix = "/in/"
const ThreadPathFormat = "/messaging/thread/new?recipient=%s"
